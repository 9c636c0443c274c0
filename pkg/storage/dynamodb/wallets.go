package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/storage"
)

// GetWallet retrieves a wallet from DynamoDB by user ID.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.WalletsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrWalletNotFound
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// ListWallets scans the whole wallets table.
func (s *Store) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	paginator := dynamodb.NewScanPaginator(s.Client, &dynamodb.ScanInput{
		TableName:      aws.String(s.WalletsTableName),
		ConsistentRead: aws.Bool(true),
	})

	var wallets []models.Wallet
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallets: %w", err)
		}
		var batch []models.Wallet
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
		}
		wallets = append(wallets, batch...)
	}

	return wallets, nil
}

// CommitTopup credits the wallet and records the topup in one DynamoDB transaction.
// A wallet is created by its first topup.
func (s *Store) CommitTopup(ctx context.Context, commit *models.TopupCommit) error {
	if commit == nil || commit.Transaction == nil {
		return errors.New("topup commit requires a transaction")
	}
	tx := commit.Transaction

	txAV, err := transactionItem(tx)
	if err != nil {
		return err
	}
	nowAV, err := attributevalue.Marshal(tx.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	values := map[string]types.AttributeValue{
		":amount": &types.AttributeValueMemberN{Value: fmt.Sprint(int64(tx.FinalAmount))},
		":zero":   &types.AttributeValueMemberN{Value: "0"},
		":next":   &types.AttributeValueMemberN{Value: fmt.Sprint(commit.ExpectedWalletVersion + 1)},
		":now":    nowAV,
	}
	condition := "attribute_not_exists(user_id)"
	if commit.ExpectedWalletVersion > 0 {
		condition = "version = :version"
		values[":version"] = &types.AttributeValueMemberN{Value: fmt.Sprint(commit.ExpectedWalletVersion)}
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Update: &types.Update{
					TableName: aws.String(s.WalletsTableName),
					Key: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: tx.UserId},
					},
					UpdateExpression:          aws.String("SET balance = if_not_exists(balance, :zero) + :amount, version = :next, updated_at = :now"),
					ConditionExpression:       aws.String(condition),
					ExpressionAttributeValues: values,
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.WalletTransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(" + ledgerKeyAttr + ")"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		return commitError(err, "topup")
	}

	return nil
}
