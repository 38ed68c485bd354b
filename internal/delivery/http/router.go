package http

import (
	"net/http"

	"quickdoc/internal/delivery/http/handler"
	"quickdoc/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	slotHandler         *handler.SlotHandler
	bookingHandler      *handler.BookingHandler
	preferenceHandler   *handler.PreferenceHandler
	confirmationHandler *handler.ConfirmationHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	slotHandler *handler.SlotHandler,
	bookingHandler *handler.BookingHandler,
	preferenceHandler *handler.PreferenceHandler,
	confirmationHandler *handler.ConfirmationHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		slotHandler:         slotHandler,
		bookingHandler:      bookingHandler,
		preferenceHandler:   preferenceHandler,
		confirmationHandler: confirmationHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Confirmation routes (public - token is the credential)
	api.HandleFunc("/confirm/{token}", r.confirmationHandler.Confirm).Methods(http.MethodPost)

	// Clinic routes (protected - clinic only)
	clinic := api.PathPrefix("/clinic").Subrouter()
	clinic.Use(r.authMiddleware.Authenticate)
	clinic.Use(middleware.RequireClinic)
	clinic.HandleFunc("/slots", r.slotHandler.CreateSlot).Methods(http.MethodPost)
	clinic.HandleFunc("/slots", r.slotHandler.GetClinicSlots).Methods(http.MethodGet)
	clinic.HandleFunc("/slots/{id}", r.slotHandler.CancelSlot).Methods(http.MethodDelete)
	clinic.HandleFunc("/slots/{id}/reopen", r.slotHandler.ReopenSlot).Methods(http.MethodPost)
	clinic.HandleFunc("/bookings", r.bookingHandler.GetClinicBookings).Methods(http.MethodGet)
	clinic.HandleFunc("/bookings/{id}", r.bookingHandler.CancelBooking).Methods(http.MethodDelete)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/slots", r.slotHandler.GetOpenSlots).Methods(http.MethodGet)
	patient.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	patient.HandleFunc("/bookings", r.bookingHandler.GetPatientBookings).Methods(http.MethodGet)
	patient.HandleFunc("/bookings/{id}", r.bookingHandler.CancelBooking).Methods(http.MethodDelete)
	patient.HandleFunc("/standby", r.preferenceHandler.GetStandby).Methods(http.MethodGet)
	patient.HandleFunc("/standby", r.preferenceHandler.SetStandby).Methods(http.MethodPut)
	patient.HandleFunc("/dnd", r.preferenceHandler.GetDnd).Methods(http.MethodGet)
	patient.HandleFunc("/dnd", r.preferenceHandler.SetDnd).Methods(http.MethodPut)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
