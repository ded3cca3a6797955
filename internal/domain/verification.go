package domain

// VerificationRecord is an issued phone-verification code.
// PK: verification_id, with phone-index and code-index GSIs for lookups.
// At most one record is live per phone at any instant; the orchestrator evicts
// the previous record before creating a new one.
// ExpiresAt is a Unix timestamp also used as the DynamoDB TTL attribute.
type VerificationRecord struct {
	VerificationID string `json:"id" dynamodbav:"verification_id"`
	Phone          string `json:"phone" dynamodbav:"phone"`
	Code           string `json:"-" dynamodbav:"code"`
	ExpiresAt      int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// VerifyPhoneRequest is the code-entry submission from the client.
// The code is constrained to exactly six digits to match the client input widget.
type VerifyPhoneRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}
