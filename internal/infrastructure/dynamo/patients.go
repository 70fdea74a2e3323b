package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hospitalhub-api/internal/domain"
)

// PatientRepo provides typed DynamoDB operations for the patients table.
type PatientRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPatientRepo(client *dynamodb.Client, tableName string) *PatientRepo {
	return &PatientRepo{client: client, tableName: tableName}
}

func (r *PatientRepo) Put(ctx context.Context, p *domain.Patient) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal patient: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PatientRepo) Get(ctx context.Context, patientID string) (*domain.Patient, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("patient_id", patientID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("patient not found: %w", domain.ErrNotFound)
	}
	var p domain.Patient
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BatchGet fetches patients by id, preserving no particular order.
// DynamoDB caps BatchGetItem at 100 keys per call, so large doctor rosters
// are fetched in chunks.
func (r *PatientRepo) BatchGet(ctx context.Context, patientIDs []string) ([]domain.Patient, error) {
	var patients []domain.Patient
	for start := 0; start < len(patientIDs); start += 100 {
		end := start + 100
		if end > len(patientIDs) {
			end = len(patientIDs)
		}
		keys := make([]map[string]types.AttributeValue, 0, end-start)
		for _, id := range patientIDs[start:end] {
			keys = append(keys, strKey("patient_id", id))
		}
		out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
			RequestItems: map[string]types.KeysAndAttributes{
				r.tableName: {Keys: keys},
			},
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Patient
		if err := attributevalue.UnmarshalListOfMaps(out.Responses[r.tableName], &page); err != nil {
			return nil, err
		}
		patients = append(patients, page...)
	}
	return patients, nil
}

func (r *PatientRepo) Update(ctx context.Context, patientID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("patient_id", patientID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ConditionExpression:       aws.String("attribute_exists(patient_id)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("patient not found: %w", domain.ErrNotFound)
	}
	return err
}

func (r *PatientRepo) Delete(ctx context.Context, patientID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("patient_id", patientID),
	})
	return err
}

// Scan returns every patient record. Used only by the analytics report,
// which is an offline-style aggregation over the whole table.
func (r *PatientRepo) Scan(ctx context.Context) ([]domain.Patient, error) {
	var patients []domain.Patient
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Patient
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		patients = append(patients, page...)
		if out.LastEvaluatedKey == nil {
			return patients, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
