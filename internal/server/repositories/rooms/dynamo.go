package rooms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

// DynamoAPI is the part of *dynamodb.Client used by the room store.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoRepository keeps rooms in a table keyed by "roomId".
type DynamoRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	item, err := attributevalue.MarshalMap(room)
	if err != nil {
		return nil, fmt.Errorf("marshal room: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(roomId)"),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb error: %w", err)
	}
	return room, nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, roomID string) (*models.Room, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       map[string]types.AttributeValue{"roomId": &types.AttributeValueMemberS{Value: roomID}},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb error: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, common.ErrorNotFound
	}

	room := &models.Room{}
	if err := attributevalue.UnmarshalMap(out.Item, room); err != nil {
		return nil, fmt.Errorf("unmarshal room: %w", err)
	}
	return room, nil
}
