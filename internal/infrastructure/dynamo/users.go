package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/consultly/verification-api/internal/domain"
)

// UserRepo is the adapter for the marketplace user record store. This service
// only reads a user's phone and commits the verified-phone fact; everything
// else about the user table is owned by the account service.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", domain.ErrStore)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrMissingPhone)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", domain.ErrStore)
	}
	return &u, nil
}

// UpdatePhoneVerified stamps the verified-at time and re-affirms the phone
// value with the one that was actually verified, even if it differs from what
// was on file. Verification is the source of truth for the phone field here.
func (r *UserRepo) UpdatePhoneVerified(ctx context.Context, userID, phone string, verifiedAt time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldPhone:           phone,
		fieldPhoneVerifiedAt: verifiedAt.UTC().Format(time.RFC3339),
		fieldUpdatedAt:       time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		return fmt.Errorf("update user phone: %w", domain.ErrStore)
	}
	return nil
}
