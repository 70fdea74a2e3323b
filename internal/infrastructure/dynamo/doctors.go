package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hospitalhub-api/internal/domain"
)

// DoctorRepo provides typed DynamoDB operations for the doctors table.
type DoctorRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDoctorRepo(client *dynamodb.Client, tableName string) *DoctorRepo {
	return &DoctorRepo{client: client, tableName: tableName}
}

func (r *DoctorRepo) Put(ctx context.Context, d *domain.Doctor) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal doctor: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DoctorRepo) Get(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("doctor_id", doctorID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("doctor not found: %w", domain.ErrNotFound)
	}
	var d domain.Doctor
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepo) GetByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	return r.queryGSI(ctx, "email-index", "email", email)
}

// GetByCardNumber resolves a doctor by staff card number, the handle used
// when referring a patient to a colleague.
func (r *DoctorRepo) GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Doctor, error) {
	return r.queryGSI(ctx, "cardnumber-index", "cardnumber", cardNumber)
}

func (r *DoctorRepo) Update(ctx context.Context, doctorID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("doctor_id", doctorID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(doctor_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("doctor not found: %w", domain.ErrNotFound)
	}
	return err
}

// UpdatePasswordHash overwrites the stored credential hash. The recovery
// flow is the only writer of this attribute outside registration.
func (r *DoctorRepo) UpdatePasswordHash(ctx context.Context, doctorID, passwordHash string) error {
	return r.Update(ctx, doctorID, map[string]interface{}{fieldPasswordHash: passwordHash})
}

// AppendPatient atomically appends a patient id to the doctor's list.
// if_not_exists covers doctors created before the attribute existed.
func (r *DoctorRepo) AppendPatient(ctx context.Context, doctorID, patientID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("doctor_id", doctorID),
		UpdateExpression: aws.String(
			"SET patient_ids = list_append(if_not_exists(patient_ids, :empty), :p)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":     &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: patientID}}},
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		},
		ConditionExpression: aws.String("attribute_exists(doctor_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("doctor not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *DoctorRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.Doctor, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: value}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("doctor not found: %w", domain.ErrNotFound)
	}
	var d domain.Doctor
	if err := attributevalue.UnmarshalMap(out.Items[0], &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
