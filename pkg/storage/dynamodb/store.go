package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/station-bookings/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables names the DynamoDB tables backing the Store.
type Tables struct {
	StationDays        string
	Reservations       string
	Wallets            string
	WalletTransactions string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                      DynamoDBAPI
	StationDaysTableName        string
	ReservationsTableName       string
	WalletsTableName            string
	WalletTransactionsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client:                      client,
		StationDaysTableName:        tables.StationDays,
		ReservationsTableName:       tables.Reservations,
		WalletsTableName:            tables.Wallets,
		WalletTransactionsTableName: tables.WalletTransactions,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const userReservationsIndex = "user_id-created_at-index"

// commitError maps a failed TransactWriteItems call onto the storage sentinels.
// A failed condition means another writer got there first, so the caller may retry.
func commitError(err error, op string) error {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "ConditionalCheckFailed", "TransactionConflict":
				return fmt.Errorf("%w: %s rejected at item %d", storage.ErrContention, op, i)
			}
		}
	}
	var conflict *types.TransactionConflictException
	if errors.As(err, &conflict) {
		return fmt.Errorf("%w: %s conflicted with a concurrent transaction", storage.ErrContention, op)
	}
	return fmt.Errorf("failed to execute %s transaction: %w", op, err)
}
