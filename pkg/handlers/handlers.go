package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/station-bookings/pkg/handlers/bookings"
	"github.com/chris/station-bookings/pkg/handlers/ledger"
	"github.com/chris/station-bookings/pkg/handlers/wallets"
	appmiddleware "github.com/chris/station-bookings/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Service is everything the HTTP surface needs from the booking ledger.
type Service interface {
	bookings.Service
	wallets.Service
	ledger.Service
}

// NewRouter mounts every route on a chi router.
// Quotes and availability are public; everything else acts on the caller resolved by authenticate,
// which defaults to the X-User-Id header. metrics may be nil.
func NewRouter(service Service, logger *slog.Logger, metrics http.Handler, authenticate func(http.Handler) http.Handler) http.Handler {
	if authenticate == nil {
		authenticate = appmiddleware.RequireUser
	}

	bookingsHandler := bookings.NewBookingsHandler(service)
	walletsHandler := wallets.NewWalletsHandler(service)
	ledgerHandler := ledger.NewLedgerHandler(service)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(appmiddleware.NewStructuredLogger(logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		router.Handle("/metrics", metrics)
	}

	router.Get("/bookings/availability", bookingsHandler.CheckAvailability)
	router.Get("/bookings/price", bookingsHandler.CalculatePrice)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/bookings", bookingsHandler.CreateBooking)
		r.Get("/bookings/mine", bookingsHandler.ListMyBookings)

		r.Post("/wallet/topup", walletsHandler.TopupWallet)
		r.Get("/wallet/balance", walletsHandler.GetBalance)
		r.Get("/wallet/transactions", ledgerHandler.ListTransactions)
		r.Get("/wallet/reconciliation", ledgerHandler.GetReconciliation)
	})

	return router
}
