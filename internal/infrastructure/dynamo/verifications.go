package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/consultly/verification-api/internal/domain"
	"github.com/consultly/verification-api/internal/pkg/id"
)

// VerificationRepo persists issued phone-verification codes.
// PK: verification_id, with phone-index and code-index GSIs.
// The repo itself does not enforce the one-live-record-per-phone invariant;
// the orchestrator evicts the prior record before calling Create.
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Create inserts a new record and returns its assigned id.
func (r *VerificationRepo) Create(ctx context.Context, phone, code string, expiresAt time.Time) (string, error) {
	rec := &domain.VerificationRecord{
		VerificationID: id.New(),
		Phone:          phone,
		Code:           code,
		ExpiresAt:      expiresAt.Unix(),
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return "", fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return "", fmt.Errorf("put verification: %w", domain.ErrStore)
	}
	return rec.VerificationID, nil
}

// FindByPhone returns the record issued for phone, or ErrCodeNotFound.
func (r *VerificationRepo) FindByPhone(ctx context.Context, phone string) (*domain.VerificationRecord, error) {
	return r.queryGSI(ctx, "phone-index", "phone", phone)
}

// FindByCode returns the record carrying the given code value, or ErrCodeNotFound.
// Codes are not globally unique across phones, so this lookup is for support
// diagnostics only; the verify path always matches phone+code via FindByPhone.
func (r *VerificationRepo) FindByCode(ctx context.Context, code string) (*domain.VerificationRecord, error) {
	return r.queryGSI(ctx, "code-index", "code", code)
}

// Delete removes a record by id. Deleting an id that no longer exists is not
// an error.
func (r *VerificationRepo) Delete(ctx context.Context, verificationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("verification_id", verificationID),
	})
	if err != nil {
		return fmt.Errorf("delete verification: %w", domain.ErrStore)
	}
	return nil
}

func (r *VerificationRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.VerificationRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", index, domain.ErrStore)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("verification record: %w", domain.ErrCodeNotFound)
	}
	var rec domain.VerificationRecord
	if err := attributevalue.UnmarshalMap(out.Items[0], &rec); err != nil {
		return nil, fmt.Errorf("unmarshal verification: %w", domain.ErrStore)
	}
	return &rec, nil
}
