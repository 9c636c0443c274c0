package models

import (
	"fmt"
	"time"
)

// Station identifies one of the two reservable gaming stations.
type Station int

const (
	StationOne Station = 1
	StationTwo Station = 2
)

// Valid reports whether s is one of the known stations.
func (s Station) Valid() bool {
	return s == StationOne || s == StationTwo
}

// PaymentMethod defines how a reservation was paid for.
type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "wallet"
	PaymentMock   PaymentMethod = "mock"
)

// PaymentStatus defines the settlement state of a reservation's payment.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
)

// TransactionKind defines the origin of a wallet transaction.
type TransactionKind string

const (
	KindTopup   TransactionKind = "topup"
	KindBooking TransactionKind = "booking"
)

// DateLayout is the calendar date format used for reservations.
const DateLayout = "2006-01-02"

// SlotKey builds the partition key of a station's day.
func SlotKey(station Station, date string) string {
	return fmt.Sprintf("%d#%s", station, date)
}

// Reservation represents one confirmed booking of a station.
// It includes dynamodbav tags for marshalling.
type Reservation struct {
	Id                string        `json:"id" dynamodbav:"id"`
	UserId            string        `json:"user_id" dynamodbav:"user_id"`
	SlotKey           string        `json:"-" dynamodbav:"slot_key"`
	Station           Station       `json:"station" dynamodbav:"station"`
	Date              string        `json:"date" dynamodbav:"date"`
	StartTime         string        `json:"start_time" dynamodbav:"start_time"`
	EndTime           string        `json:"end_time" dynamodbav:"end_time"`
	StartMinute       int           `json:"-" dynamodbav:"start_minute"`
	EndMinute         int           `json:"-" dynamodbav:"end_minute"`
	DurationMinutes   int           `json:"duration_minutes" dynamodbav:"duration_minutes"`
	Controllers       int           `json:"controllers" dynamodbav:"controllers"`
	BasePrice         Amount        `json:"base_price" dynamodbav:"base_price"`
	ControllerCharges Amount        `json:"controller_charges" dynamodbav:"controller_charges"`
	TotalPrice        Amount        `json:"total_price" dynamodbav:"total_price"`
	PaymentMethod     PaymentMethod `json:"payment_method" dynamodbav:"payment_method"`
	PaymentStatus     PaymentStatus `json:"payment_status" dynamodbav:"payment_status"`
	CreatedAt         time.Time     `json:"created_at" dynamodbav:"created_at"`
}

// Interval is an occupied [Start, End) range of a station's day, in minutes after midnight.
type Interval struct {
	Start         int    `dynamodbav:"start"`
	End           int    `dynamodbav:"end"`
	ReservationId string `dynamodbav:"reservation_id"`
}

// Overlaps reports whether the half-open ranges [start, end) and i intersect.
func (i Interval) Overlaps(start, end int) bool {
	return !(start >= i.End || end <= i.Start)
}

// StationDay is the aggregate of every reservation held on one station for one date.
// Version is bumped by each booking and guards concurrent writers.
type StationDay struct {
	SlotKey   string     `dynamodbav:"slot_key"`
	Station   Station    `dynamodbav:"station"`
	Date      string     `dynamodbav:"date"`
	Intervals []Interval `dynamodbav:"intervals"`
	Version   int64      `dynamodbav:"version"`
}

// OccupiedSlot is the display form of an occupied interval.
type OccupiedSlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Wallet represents a user's prepaid balance.
type Wallet struct {
	UserId    string    `json:"user_id" dynamodbav:"user_id"`
	Balance   Amount    `json:"balance" dynamodbav:"balance"`
	Version   int64     `json:"version" dynamodbav:"version"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// WalletTransaction is an append-only entry of a user's wallet ledger.
// FinalAmount is the signed delta applied to the balance.
type WalletTransaction struct {
	Id            string          `json:"id" dynamodbav:"id"`
	UserId        string          `json:"user_id" dynamodbav:"user_id"`
	Amount        Amount          `json:"amount" dynamodbav:"amount"`
	Bonus         Amount          `json:"bonus" dynamodbav:"bonus"`
	FinalAmount   Amount          `json:"final_amount" dynamodbav:"final_amount"`
	Kind          TransactionKind `json:"transaction_type" dynamodbav:"kind"`
	ReservationId string          `json:"booking_id,omitempty" dynamodbav:"reservation_id,omitempty"`
	Timestamp     time.Time       `json:"timestamp" dynamodbav:"timestamp"`
}

// BookingCommit is the unit written atomically for a booking.
// Transaction is nil when the reservation was not paid from the wallet.
type BookingCommit struct {
	Reservation               *Reservation
	Transaction               *WalletTransaction
	ExpectedStationDayVersion int64
	ExpectedWalletVersion     int64
}

// TopupCommit is the unit written atomically for a wallet topup.
type TopupCommit struct {
	Transaction           *WalletTransaction
	ExpectedWalletVersion int64
}
