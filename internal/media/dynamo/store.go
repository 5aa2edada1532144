// Package dynamo stores media records in a single DynamoDB table.
package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// All records share one partition; the sort key orders them by time of append.
const partition = "MEDIA"

// batchSize is the DynamoDB BatchWriteItem limit.
const batchSize = 25

// Unprocessed batch items are retried after retryDelay, doubling up to
// maxRetryDelay.
const (
	retryDelay    = 50 * time.Millisecond
	maxRetryDelay = 2 * time.Second
)

// API is the subset of the DynamoDB client the store calls.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type item struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	media.Record
}

// Store is a media.Store over one DynamoDB table with PK/SK string keys.
type Store struct {
	client     API
	table      string
	retryDelay time.Duration
}

// New builds a client from the default AWS config chain. A non-empty
// endpoint points the client at DynamoDB Local or another compatible server.
func New(ctx context.Context, table, region, endpoint string) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewWithClient(client, table), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client API, table string) *Store {
	return &Store{client: client, table: table, retryDelay: retryDelay}
}

func sortKey(rec media.Record) string {
	return fmt.Sprintf("REC#%020d#%s", rec.CreatedAt.UnixNano(), rec.ID)
}

// Append writes one item.
func (s *Store) Append(ctx context.Context, rec media.Record) error {
	rec = media.Stamp(rec)
	av, err := attributevalue.MarshalMap(item{PK: partition, SK: sortKey(rec), Record: rec})
	if err != nil {
		return media.Wrap("append", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      av,
	})
	return media.Wrap("append", err)
}

// query pages through the partition in sort key order, applying an
// optional filter condition.
func (s *Store) query(ctx context.Context, filter *expression.ConditionBuilder) ([]item, error) {
	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(partition)))
	if filter != nil {
		builder = builder.WithFilter(*filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
	}

	var items []item
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, raw := range out.Items {
			var it item
			if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
				return nil, fmt.Errorf("unmarshal media item: %w", err)
			}
			items = append(items, it)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Query returns file ids of matching records in insertion order.
func (s *Store) Query(ctx context.Context, key media.FilterKey, value string, kind media.Kind) ([]string, error) {
	if !media.ValidFilterKey(key) {
		return nil, media.Wrap("query", fmt.Errorf("unknown filter key %q", key))
	}
	cond := expression.Name(string(key)).Equal(expression.Value(value))
	if kind != media.KindAny {
		cond = cond.And(expression.Name("media_type").Equal(expression.Value(string(kind))))
	}
	items, err := s.query(ctx, &cond)
	if err != nil {
		return nil, media.Wrap("query", err)
	}
	var ids []string
	for _, it := range items {
		if it.Matches(key, value, kind) {
			ids = append(ids, it.FileID)
		}
	}
	return ids, nil
}

// DistinctCategories returns category names for ct in order of first appearance.
func (s *Store) DistinctCategories(ctx context.Context, ct media.CategoryType) ([]string, error) {
	cond := expression.Name("category_type").Equal(expression.Value(string(ct)))
	items, err := s.query(ctx, &cond)
	if err != nil {
		return nil, media.Wrap("categories", err)
	}
	records := make([]media.Record, len(items))
	for i, it := range items {
		records[i] = it.Record
	}
	return media.Distinct(records, ct), nil
}

// ClearAll deletes every item of the partition in batches.
func (s *Store) ClearAll(ctx context.Context) error {
	items, err := s.query(ctx, nil)
	if err != nil {
		return media.Wrap("clear", err)
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, it := range items {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: it.PK},
					"SK": &types.AttributeValueMemberS{Value: it.SK},
				},
			},
		})
	}

	for i := 0; i < len(requests); i += batchSize {
		end := i + batchSize
		if end > len(requests) {
			end = len(requests)
		}
		if err := s.writeBatch(ctx, requests[i:end]); err != nil {
			return media.Wrap("clear", err)
		}
	}
	return nil
}

// writeBatch sends one batch and retries its unprocessed items with
// exponential backoff until the batch drains or ctx ends.
func (s *Store) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.table: requests}
	delay := s.retryDelay
	for {
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return err
		}
		pending = out.UnprocessedItems
		if len(pending[s.table]) == 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// Records returns every record in insertion order.
func (s *Store) Records(ctx context.Context) ([]media.Record, error) {
	items, err := s.query(ctx, nil)
	if err != nil {
		return nil, media.Wrap("records", err)
	}
	records := make([]media.Record, len(items))
	for i, it := range items {
		records[i] = it.Record
	}
	return records, nil
}
