package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/storypoint/internal/common"
	"github.com/dmitrijs2005/storypoint/internal/server/models"
)

const conditionalCheckFailed = "ConditionalCheckFailed"

// DynamoAPI is the part of *dynamodb.Client used by the DynamoDB stores.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoRepository keeps users in usersTable (partition key "username") and
// email markers in emailsTable (partition key "email").
type DynamoRepository struct {
	client      DynamoAPI
	usersTable  string
	emailsTable string
}

func NewDynamoRepository(client DynamoAPI, usersTable, emailsTable string) *DynamoRepository {
	return &DynamoRepository{client: client, usersTable: usersTable, emailsTable: emailsTable}
}

// Register writes both items in a single TransactWriteItems call, each put
// guarded by attribute_not_exists on its key. The transaction's cancellation
// reasons are positional, which tells us which key collided.
func (r *DynamoRepository) Register(ctx context.Context, user *models.User) (*models.User, error) {
	userItem, err := attributevalue.MarshalMap(user)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	emailItem, err := attributevalue.MarshalMap(models.EmailIndex{Email: user.Email, UserName: user.UserName})
	if err != nil {
		return nil, fmt.Errorf("marshal email index: %w", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.usersTable),
				Item:                userItem,
				ConditionExpression: aws.String("attribute_not_exists(username)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.emailsTable),
				Item:                emailItem,
				ConditionExpression: aws.String("attribute_not_exists(email)"),
			}},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			if conflict := conflictFromReasons(canceled.CancellationReasons); conflict != nil {
				return nil, conflict
			}
		}
		return nil, fmt.Errorf("dynamodb error: %w", err)
	}

	return user, nil
}

func conflictFromReasons(reasons []types.CancellationReason) error {
	for i, reason := range reasons {
		if aws.ToString(reason.Code) != conditionalCheckFailed {
			continue
		}
		switch i {
		case 0:
			return common.ErrUsernameExists
		case 1:
			return common.ErrEmailExists
		}
	}
	return nil
}

func (r *DynamoRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.usersTable),
		Key:            map[string]types.AttributeValue{"username": &types.AttributeValueMemberS{Value: userName}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb error: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, common.ErrorNotFound
	}

	user := &models.User{}
	if err := attributevalue.UnmarshalMap(out.Item, user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}

	return user, nil
}

func (r *DynamoRepository) UpdatePassword(ctx context.Context, userName string, passwordHash string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(r.usersTable),
		Key:                      map[string]types.AttributeValue{"username": &types.AttributeValueMemberS{Value: userName}},
		UpdateExpression:         aws.String("SET #password = :password"),
		ConditionExpression:      aws.String("attribute_exists(username)"),
		ExpressionAttributeNames: map[string]string{"#password": "password"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":password": &types.AttributeValueMemberS{Value: passwordHash},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("dynamodb error: %w", err)
	}

	return nil
}
