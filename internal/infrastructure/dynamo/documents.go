package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/unibuy/unibuy-api/internal/domain"
)

// DocumentRepo provides typed DynamoDB operations for the student_documents table.
type DocumentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDocumentRepo(client *dynamodb.Client, tableName string) *DocumentRepo {
	return &DocumentRepo{client: client, tableName: tableName}
}

func (r *DocumentRepo) Put(ctx context.Context, d *domain.StudentDocument) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DocumentRepo) Get(ctx context.Context, documentID string) (*domain.StudentDocument, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("document_id", documentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	var d domain.StudentDocument
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetLatestByUser returns the most recently submitted document for a user.
// The user_id-index is range-keyed on created_at, so querying it descending
// yields the newest submission first.
func (r *DocumentRepo) GetLatestByUser(ctx context.Context, userID string) (*domain.StudentDocument, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("user_id-index"),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	var d domain.StudentDocument
	if err := attributevalue.UnmarshalMap(out.Items[0], &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepo) Update(ctx context.Context, documentID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("document_id", documentID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	return err
}
