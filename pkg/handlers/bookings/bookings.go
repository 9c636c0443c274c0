package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chris/station-bookings/pkg/booking"
	"github.com/chris/station-bookings/pkg/mapping"
	"github.com/chris/station-bookings/pkg/middleware"
	"github.com/chris/station-bookings/pkg/models"
	"github.com/chris/station-bookings/pkg/pricing"
)

// Service is the part of the ledger the booking handlers call.
type Service interface {
	CreateBooking(ctx context.Context, req booking.BookingRequest) (*models.Reservation, error)
	ListUserReservations(ctx context.Context, userID string) ([]models.Reservation, error)
	CheckAvailability(ctx context.Context, station models.Station, date string) ([]models.OccupiedSlot, error)
	CalculatePrice(durationMinutes, controllers int) (pricing.Quote, error)
}

// BookingsHandler holds the dependencies for booking-related handlers.
type BookingsHandler struct {
	Service Service
}

// NewBookingsHandler creates a new BookingsHandler.
func NewBookingsHandler(service Service) *BookingsHandler {
	return &BookingsHandler{Service: service}
}

// CreateBooking reserves a station for the calling user.
func (h *BookingsHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var nb mapping.NewBooking
	if err := json.NewDecoder(r.Body).Decode(&nb); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if nb.Date.IsZero() {
		http.Error(w, "Invalid request body: date is required", http.StatusBadRequest)
		return
	}

	res, err := h.Service.CreateBooking(r.Context(), mapping.ToDomainBookingRequest(middleware.UserID(r.Context()), &nb))
	if err != nil {
		status := mapping.ErrorStatus(err)
		if status == http.StatusInternalServerError {
			http.Error(w, fmt.Sprintf("Failed to create booking: %v", err), status)
		} else {
			http.Error(w, err.Error(), status)
		}
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

// ListMyBookings returns the calling user's reservations, newest first.
func (h *BookingsHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Service.ListUserReservations(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve bookings: %v", err), mapping.ErrorStatus(err))
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}

	writeJSON(w, http.StatusOK, reservations)
}

// CheckAvailability lists the occupied intervals of ?station= on ?date=.
func (h *BookingsHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	station, err := strconv.Atoi(r.URL.Query().Get("station"))
	if err != nil {
		http.Error(w, "Query parameter station must be an integer", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")

	slots, err := h.Service.CheckAvailability(r.Context(), models.Station(station), date)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to check availability: %v", err), mapping.ErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, mapping.ToApiAvailability(models.Station(station), date, slots))
}

// CalculatePrice quotes ?duration_minutes= with ?controllers=.
func (h *BookingsHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	duration, err := strconv.Atoi(r.URL.Query().Get("duration_minutes"))
	if err != nil {
		http.Error(w, "Query parameter duration_minutes must be an integer", http.StatusBadRequest)
		return
	}
	controllers, err := strconv.Atoi(r.URL.Query().Get("controllers"))
	if err != nil {
		http.Error(w, "Query parameter controllers must be an integer", http.StatusBadRequest)
		return
	}

	quote, err := h.Service.CalculatePrice(duration, controllers)
	if err != nil {
		http.Error(w, err.Error(), mapping.ErrorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
