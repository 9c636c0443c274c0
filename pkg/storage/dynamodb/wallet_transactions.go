package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/station-bookings/pkg/models"
)

// The wallet transactions table is keyed by (user_id, ledger_key), so a user's
// history is read from the base table with a strongly consistent query.
const ledgerKeyAttr = "ledger_key"

// Fixed width, so ledger keys sort chronologically.
const ledgerKeyLayout = "2006-01-02T15:04:05.000000000Z"

func ledgerKey(tx *models.WalletTransaction) string {
	return tx.Timestamp.UTC().Format(ledgerKeyLayout) + "#" + tx.Id
}

// transactionItem marshals tx with its ledger key.
func transactionItem(tx *models.WalletTransaction) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet transaction: %w", err)
	}
	item[ledgerKeyAttr] = &types.AttributeValueMemberS{Value: ledgerKey(tx)}
	return item, nil
}

// ListWalletTransactions queries a user's ledger newest first.
// With a zero limit every page is read.
func (s *Store) ListWalletTransactions(ctx context.Context, userID string, limit int32) ([]models.WalletTransaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.WalletTransactionsTableName),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead:   aws.Bool(true),
		ScanIndexForward: aws.Bool(false), // Sort by ledger key in descending order
	}

	if limit > 0 {
		input.Limit = aws.Int32(limit)
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query wallet transactions: %w", err)
		}
		var txs []models.WalletTransaction
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &txs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wallet transactions: %w", err)
		}
		return txs, nil
	}

	var txs []models.WalletTransaction
	paginator := dynamodb.NewQueryPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query wallet transactions: %w", err)
		}
		var batch []models.WalletTransaction
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wallet transactions: %w", err)
		}
		txs = append(txs, batch...)
	}

	return txs, nil
}
