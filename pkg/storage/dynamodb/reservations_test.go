package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/storage"
	"github.com/chris/station-bookings/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetStationDay(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, StationDaysTableName: "station_days"}

		day := models.StationDay{
			SlotKey:   "1#2025-03-01",
			Station:   models.StationOne,
			Date:      "2025-03-01",
			Intervals: []models.Interval{{Start: 840, End: 900, ReservationId: "r1"}},
			Version:   3,
		}
		av, _ := attributevalue.MarshalMap(day)
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			key := in.Key["slot_key"].(*types.AttributeValueMemberS)
			return aws.ToBool(in.ConsistentRead) && key.Value == "1#2025-03-01"
		})).Return(&dynamodb.GetItemOutput{Item: av}, nil).Once()

		got, err := store.GetStationDay(context.Background(), models.StationOne, "2025-03-01")

		require.NoError(t, err)
		assert.Equal(t, &day, got)
		mockClient.AssertExpectations(t)
	})

	t.Run("Empty Day", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, StationDaysTableName: "station_days"}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		got, err := store.GetStationDay(context.Background(), models.StationTwo, "2025-03-01")

		require.NoError(t, err)
		assert.Equal(t, "2#2025-03-01", got.SlotKey)
		assert.Empty(t, got.Intervals)
		assert.Zero(t, got.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, StationDaysTableName: "station_days"}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("dynamodb error")).Once()

		_, err := store.GetStationDay(context.Background(), models.StationOne, "2025-03-01")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get station day")
		mockClient.AssertExpectations(t)
	})
}

func TestGetReservation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, ReservationsTableName: "reservations"}

		res := models.Reservation{Id: "r1", UserId: "user1", Station: models.StationOne, TotalPrice: 14900, CreatedAt: time.Now().UTC().Truncate(time.Second)}
		av, _ := attributevalue.MarshalMap(res)
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: av}, nil).Once()

		got, err := store.GetReservation(context.Background(), "r1")

		require.NoError(t, err)
		assert.Equal(t, &res, got)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, ReservationsTableName: "reservations"}

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := store.GetReservation(context.Background(), "missing")

		assert.ErrorIs(t, err, storage.ErrReservationNotFound)
		mockClient.AssertExpectations(t)
	})
}

func TestListReservationsByUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, ReservationsTableName: "reservations"}

		items := make([]map[string]types.AttributeValue, 0, 2)
		for _, id := range []string{"r2", "r1"} {
			av, _ := attributevalue.MarshalMap(models.Reservation{Id: id, UserId: "user1"})
			items = append(items, av)
		}
		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return aws.ToString(in.IndexName) == userReservationsIndex &&
				!aws.ToBool(in.ScanIndexForward) &&
				aws.ToInt32(in.Limit) == 100
		})).Return(&dynamodb.QueryOutput{Items: items}, nil).Once()

		got, err := store.ListReservationsByUser(context.Background(), "user1", 100)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "r2", got[0].Id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, ReservationsTableName: "reservations"}

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed")).Once()

		_, err := store.ListReservationsByUser(context.Background(), "user1", 100)

		assert.Error(t, err)
		mockClient.AssertExpectations(t)
	})
}
