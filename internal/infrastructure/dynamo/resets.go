package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hospitalhub-api/internal/domain"
)

// ResetRepo manages password recovery codes.
// PK: doctor_id. The table holds at most one record per doctor, so Put
// is an atomic whole-record replace and two racing issue requests still
// leave exactly one winner.
type ResetRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewResetRepo(client *dynamodb.Client, tableName string) *ResetRepo {
	return &ResetRepo{client: client, tableName: tableName}
}

// Put upserts the reset record for a doctor, replacing any prior one.
func (r *ResetRepo) Put(ctx context.Context, pr *domain.PasswordReset) error {
	item, err := attributevalue.MarshalMap(pr)
	if err != nil {
		return fmt.Errorf("marshal password reset: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ResetRepo) Get(ctx context.Context, doctorID string) (*domain.PasswordReset, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("doctor_id", doctorID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("password reset not found: %w", domain.ErrNotFound)
	}
	var pr domain.PasswordReset
	if err := attributevalue.UnmarshalMap(out.Item, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// Delete removes the record unconditionally. Used to clear stale codes
// before issuing a new one and to drop expired records on read.
func (r *ResetRepo) Delete(ctx context.Context, doctorID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("doctor_id", doctorID),
	})
	return err
}

// DeleteIssuedAt is a compare-and-delete: it removes the record only if it
// still exists and still carries the given issuance timestamp. Exactly one
// of two racing verifications can win; the loser gets ErrNotFound.
func (r *ResetRepo) DeleteIssuedAt(ctx context.Context, doctorID string, createdAt int64) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("doctor_id", doctorID),
		ConditionExpression: aws.String("attribute_exists(doctor_id) AND created_at = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", createdAt)},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("password reset already consumed: %w", domain.ErrNotFound)
	}
	return err
}
