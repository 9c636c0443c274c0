package booking

import (
	"context"
	"fmt"
	"sort"

	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/pricing"
)

// CheckAvailability lists the occupied intervals of a station on a date, ordered by start.
func (l *Ledger) CheckAvailability(ctx context.Context, station models.Station, date string) ([]models.OccupiedSlot, error) {
	if !station.Valid() {
		return nil, invalid("station must be %d or %d", models.StationOne, models.StationTwo)
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	day, err := l.store.GetStationDay(ctx, station, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read station day: %w", err)
	}

	intervals := append([]models.Interval(nil), day.Intervals...)
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start < intervals[j].Start })

	slots := make([]models.OccupiedSlot, 0, len(intervals))
	for _, iv := range intervals {
		slots = append(slots, models.OccupiedSlot{
			StartTime: models.FormatClock(iv.Start),
			EndTime:   models.FormatClock(iv.End),
		})
	}
	return slots, nil
}

// CalculatePrice quotes a reservation without booking it.
func (l *Ledger) CalculatePrice(durationMinutes, controllers int) (pricing.Quote, error) {
	if err := pricing.Validate(durationMinutes, controllers); err != nil {
		return pricing.Quote{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return l.pricing.Price(durationMinutes, controllers), nil
}
