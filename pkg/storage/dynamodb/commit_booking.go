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
)

// CommitBooking writes a booking in a single DynamoDB transaction.
// The station day append is conditioned on the version read during the conflict check,
// so two bookings racing for the same day cannot both commit.
func (s *Store) CommitBooking(ctx context.Context, commit *models.BookingCommit) error {
	if commit == nil || commit.Reservation == nil {
		return errors.New("booking commit requires a reservation")
	}
	res := commit.Reservation

	// 1. Append the interval to the station day.
	dayUpdate, err := s.stationDayUpdate(res, commit.ExpectedStationDayVersion)
	if err != nil {
		return err
	}

	// 2. Insert the reservation itself.
	resAV, err := attributevalue.MarshalMap(res)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation: %w", err)
	}

	items := []types.TransactWriteItem{
		{Update: dayUpdate},
		{
			Put: &types.Put{
				TableName:           aws.String(s.ReservationsTableName),
				Item:                resAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}

	// 3. Debit the wallet and record the transaction for wallet payments.
	if commit.Transaction != nil {
		walletItems, err := s.walletDebitItems(res.TotalPrice, commit.Transaction, commit.ExpectedWalletVersion)
		if err != nil {
			return err
		}
		items = append(items, walletItems...)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return commitError(err, "booking")
	}

	return nil
}

func (s *Store) stationDayUpdate(res *models.Reservation, expectedVersion int64) (*types.Update, error) {
	intervalAV, err := attributevalue.Marshal(models.Interval{
		Start:         res.StartMinute,
		End:           res.EndMinute,
		ReservationId: res.Id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interval: %w", err)
	}

	values := map[string]types.AttributeValue{
		":interval": &types.AttributeValueMemberL{Value: []types.AttributeValue{intervalAV}},
		":empty":    &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		":station":  &types.AttributeValueMemberN{Value: fmt.Sprint(int(res.Station))},
		":date":     &types.AttributeValueMemberS{Value: res.Date},
		":next":     &types.AttributeValueMemberN{Value: fmt.Sprint(expectedVersion + 1)},
	}

	condition := "attribute_not_exists(slot_key)"
	if expectedVersion > 0 {
		condition = "version = :version"
		values[":version"] = &types.AttributeValueMemberN{Value: fmt.Sprint(expectedVersion)}
	}

	return &types.Update{
		TableName: aws.String(s.StationDaysTableName),
		Key: map[string]types.AttributeValue{
			"slot_key": &types.AttributeValueMemberS{Value: res.SlotKey},
		},
		UpdateExpression:    aws.String("SET intervals = list_append(if_not_exists(intervals, :empty), :interval), station = :station, #date = :date, version = :next"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#date": "date",
		},
		ExpressionAttributeValues: values,
	}, nil
}

func (s *Store) walletDebitItems(amount models.Amount, tx *models.WalletTransaction, expectedVersion int64) ([]types.TransactWriteItem, error) {
	txAV, err := transactionItem(tx)
	if err != nil {
		return nil, err
	}
	nowAV, err := attributevalue.Marshal(tx.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	return []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: aws.String(s.WalletsTableName),
				Key: map[string]types.AttributeValue{
					"user_id": &types.AttributeValueMemberS{Value: tx.UserId},
				},
				UpdateExpression:    aws.String("SET balance = balance - :amount, version = :next, updated_at = :now"),
				ConditionExpression: aws.String("balance >= :amount AND version = :version"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":amount":  &types.AttributeValueMemberN{Value: fmt.Sprint(int64(amount))},
					":version": &types.AttributeValueMemberN{Value: fmt.Sprint(expectedVersion)},
					":next":    &types.AttributeValueMemberN{Value: fmt.Sprint(expectedVersion + 1)},
					":now":     nowAV,
				},
			},
		},
		{
			Put: &types.Put{
				TableName:           aws.String(s.WalletTransactionsTableName),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(" + ledgerKeyAttr + ")"),
			},
		},
	}, nil
}
