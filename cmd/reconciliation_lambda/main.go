package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/storage"
	dydbstore "github.com/chris/station-bookings/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
)

var store storage.ReconciliationStore
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Summary is returned to the scheduler that invoked the audit.
type Summary struct {
	Wallets    int      `json:"wallets"`
	Unbalanced []string `json:"unbalanced"`
	Failed     []string `json:"failed"`
}

func setup() {
	// Load environment variables for local testing.
	godotenv.Load()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	walletsTable := os.Getenv("DYNAMODB_WALLETS_TABLE_NAME")
	transactionsTable := os.Getenv("DYNAMODB_WALLET_TRANSACTIONS_TABLE_NAME")
	if walletsTable == "" || transactionsTable == "" {
		logger.Error("DYNAMODB_WALLETS_TABLE_NAME and DYNAMODB_WALLET_TRANSACTIONS_TABLE_NAME must be set")
		os.Exit(1)
	}

	store = dydbstore.New(dynamodb.NewFromConfig(cfg), dydbstore.Tables{
		Wallets:            walletsTable,
		WalletTransactions: transactionsTable,
	})
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) (*Summary, error) {
	return reconcileAll(ctx, store, logger)
}

// reconcileAll audits every wallet. A wallet that cannot be read is reported and skipped.
func reconcileAll(ctx context.Context, store storage.ReconciliationStore, logger *slog.Logger) (*Summary, error) {
	logger.Info("starting wallet reconciliation")

	wallets, err := store.ListWallets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	summary := &Summary{Wallets: len(wallets), Unbalanced: []string{}, Failed: []string{}}
	for _, wallet := range wallets {
		rec, err := booking.ReconcileWallet(ctx, store, wallet)
		if err != nil {
			logger.Error("failed to reconcile wallet", "user_id", wallet.UserId, "error", err)
			summary.Failed = append(summary.Failed, wallet.UserId)
			continue
		}
		if !rec.Balanced {
			logger.Error("wallet balance does not match its transactions",
				"user_id", rec.UserId,
				"balance", rec.Balance.String(),
				"transaction_sum", rec.TransactionSum.String(),
				"transaction_count", rec.TransactionCount,
			)
			summary.Unbalanced = append(summary.Unbalanced, rec.UserId)
		}
	}

	logger.Info("wallet reconciliation finished",
		"wallets", summary.Wallets,
		"unbalanced", len(summary.Unbalanced),
		"failed", len(summary.Failed),
	)
	return summary, nil
}

func main() {
	setup()
	lambda.Start(HandleRequest)
}
