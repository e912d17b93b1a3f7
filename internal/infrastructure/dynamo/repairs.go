package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/repairtrack-api/internal/domain"
)

// RepairRepo provides typed DynamoDB operations for the repairs table.
type RepairRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRepairRepo(client *dynamodb.Client, tableName string) *RepairRepo {
	return &RepairRepo{client: client, tableName: tableName}
}

func (r *RepairRepo) Put(ctx context.Context, rec *domain.Repair) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal repair: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByBusiness returns every repair record under the business, via the
// business_id-index GSI. Follows pagination until the result set is complete
// so broadcast audiences are never truncated.
func (r *RepairRepo) ListByBusiness(ctx context.Context, businessID string) ([]domain.Repair, error) {
	var repairs []domain.Repair
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String("business_id-index"),
			KeyConditionExpression:    aws.String("#b = :b"),
			ExpressionAttributeNames:  map[string]string{"#b": "business_id"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":b": &types.AttributeValueMemberS{Value: businessID}},
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Repair
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		repairs = append(repairs, page...)
		if out.LastEvaluatedKey == nil {
			return repairs, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
