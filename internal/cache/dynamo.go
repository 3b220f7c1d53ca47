package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/atsbuddy/ats-buddy/internal/fingerprint"
)

// DynamoAPI is the subset of the DynamoDB client used by the cache.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore is the production cache backend. The table uses file_hash as
// its partition key and expires_at as its TTL attribute, so physical removal
// is the table's own housekeeping.
type DynamoStore struct {
	client    DynamoAPI
	tableName string
}

// NewDynamoStore creates a DynamoDB-backed store for the given table.
func NewDynamoStore(client DynamoAPI, tableName string) (*DynamoStore, error) {
	if tableName == "" {
		return nil, fmt.Errorf("cache table name is required")
	}
	return &DynamoStore{client: client, tableName: tableName}, nil
}

// record is the table item shape.
type record struct {
	FileHash         string `dynamodbav:"file_hash"`
	ExtractedText    string `dynamodbav:"extracted_text"`
	OriginalFilename string `dynamodbav:"original_filename"`
	CreatedAt        int64  `dynamodbav:"created_at"`
	ExpiresAt        int64  `dynamodbav:"expires_at"`
}

// Get fetches the item for a fingerprint. Returns (nil, nil) when absent.
func (s *DynamoStore) Get(ctx context.Context, fp fingerprint.Fingerprint) (*Entry, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]ddbtypes.AttributeValue{
			"file_hash": &ddbtypes.AttributeValueMemberS{Value: string(fp)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read cache item: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode cache item: %w", err)
	}

	return &Entry{
		Fingerprint:      fingerprint.Fingerprint(rec.FileHash),
		OriginalFilename: rec.OriginalFilename,
		ExtractedText:    rec.ExtractedText,
		CreatedAt:        time.Unix(rec.CreatedAt, 0).UTC(),
		ExpiresAt:        time.Unix(rec.ExpiresAt, 0).UTC(),
	}, nil
}

// Put writes the entry unless a live one already exists. A conditional write
// keeps the table append-only within the TTL window; losing the condition to
// a concurrent equivalent write is treated as success.
func (s *DynamoStore) Put(ctx context.Context, entry Entry) error {
	item, err := attributevalue.MarshalMap(record{
		FileHash:         string(entry.Fingerprint),
		ExtractedText:    entry.ExtractedText,
		OriginalFilename: entry.OriginalFilename,
		CreatedAt:        entry.CreatedAt.Unix(),
		ExpiresAt:        entry.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(file_hash) OR expires_at < :now"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":now": &ddbtypes.AttributeValueMemberN{Value: fmt.Sprintf("%d", entry.CreatedAt.Unix())},
		},
	})
	if err != nil {
		var conditionFailed *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			// Another request already cached this fingerprint.
			return nil
		}
		return fmt.Errorf("failed to write cache item: %w", err)
	}
	return nil
}
