package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/storage"
)

// GetStationDay reads a station day with a strongly consistent read.
func (s *Store) GetStationDay(ctx context.Context, station models.Station, date string) (*models.StationDay, error) {
	slotKey := models.SlotKey(station, date)

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.StationDaysTableName),
		Key: map[string]types.AttributeValue{
			"slot_key": &types.AttributeValueMemberS{Value: slotKey},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get station day from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return &models.StationDay{SlotKey: slotKey, Station: station, Date: date}, nil
	}

	var day models.StationDay
	if err := attributevalue.UnmarshalMap(result.Item, &day); err != nil {
		return nil, fmt.Errorf("failed to unmarshal station day: %w", err)
	}

	return &day, nil
}

// GetReservation retrieves a reservation from DynamoDB by its ID.
func (s *Store) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reservation ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.ReservationsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("reservation %s: %w", id, storage.ErrReservationNotFound)
	}

	var res models.Reservation
	if err := attributevalue.UnmarshalMap(result.Item, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reservation: %w", err)
	}

	return &res, nil
}

// ListReservationsByUser queries the user index newest first.
func (s *Store) ListReservationsByUser(ctx context.Context, userID string, limit int32) ([]models.Reservation, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.ReservationsTableName),
		IndexName:              aws.String(userReservationsIndex),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false), // Sort by created_at in descending order
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations by user ID: %w", err)
	}

	var reservations []models.Reservation
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &reservations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reservations: %w", err)
	}

	return reservations, nil
}
