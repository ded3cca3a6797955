package dynamo

// DynamoDB attribute names used in update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldPhone           = "phone"
	fieldPhoneVerifiedAt = "phone_verified_at"
	fieldUpdatedAt       = "updated_at"
)
