package dynamodb

import (
	"context"
	"fmt"

	"graphmem/domain/graph"
	appErrors "graphmem/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const stateSortKey = "STATE"

// StateStore persists one whole graph per identity as a single DynamoDB
// item. The state is serialized to one JSON blob attribute, so loads and
// saves are plain GetItem/PutItem calls with no expressions or queries.
type StateStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewStateStore creates a DynamoDB-backed state store.
func NewStateStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *StateStore {
	return &StateStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// stateItem is the DynamoDB item layout for one identity's graph.
type stateItem struct {
	PK    string `dynamodbav:"PK"`
	SK    string `dynamodbav:"SK"`
	State string `dynamodbav:"State"`
}

func identityPK(identity string) string {
	return fmt.Sprintf("IDENTITY#%s", identity)
}

// Load fetches the identity's graph. A missing item yields a fresh empty
// state, so first use needs no provisioning step.
func (s *StateStore) Load(ctx context.Context, identity string) (*graph.State, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: identityPK(identity)},
			"SK": &types.AttributeValueMemberS{Value: stateSortKey},
		},
	})
	if err != nil {
		return nil, appErrors.NewDatabaseError("GetItem", err)
	}
	if out.Item == nil {
		s.logger.Debug("no stored state, starting fresh", zap.String("identity", identity))
		return graph.NewState(), nil
	}

	var item stateItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state item: %w", err)
	}

	return graph.DecodeState([]byte(item.State))
}

// Save replaces the identity's durable graph with the given state.
func (s *StateStore) Save(ctx context.Context, identity string, st *graph.State) error {
	blob, err := graph.EncodeState(st)
	if err != nil {
		return err
	}

	av, err := attributevalue.MarshalMap(stateItem{
		PK:    identityPK(identity),
		SK:    stateSortKey,
		State: string(blob),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal state item: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("failed to save graph state",
			zap.Error(err),
			zap.String("identity", identity),
		)
		return appErrors.NewDatabaseError("PutItem", err)
	}
	return nil
}
