package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check
	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.HandleRegister)
		r.Post("/login", s.HandleLogin)
		r.Post("/refresh", s.HandleRefresh)
	})

	// Rooms are listed publicly so the registration form can offer them
	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", s.HandleListRooms)
		r.Get("/{id}", s.HandleGetRoom)
		r.With(s.authMiddleware, s.adminOnly).Post("/", s.HandleCreateRoom)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", s.HandleGetCurrentUser)
			r.With(s.adminOnly).Get("/", s.HandleListUsers)
		})

		// Tenants
		r.Route("/tenants", func(r chi.Router) {
			r.Get("/", s.HandleListTenants)
			r.Post("/", s.HandleCreateTenant)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetTenant)
				r.Get("/payments", s.HandleListTenantPayments)
			})
		})

		// Payments
		r.Route("/payments", func(r chi.Router) {
			r.Get("/", s.HandleListPayments)
			r.With(s.adminOnly).Post("/", s.HandleCreatePayment)
			r.Route("/{id}", func(r chi.Router) {
				r.With(s.adminOnly).Put("/paid", s.HandleMarkPaymentPaid)
				r.Get("/receipt", s.HandleGetReceipt)
			})
		})

		// Complaints
		r.Route("/complaints", func(r chi.Router) {
			r.Get("/", s.HandleListComplaints)
			r.Post("/", s.HandleCreateComplaint)
			r.With(s.adminOnly).Put("/{id}/status", s.HandleUpdateComplaintStatus)
		})

		// Reminders
		r.Route("/reminders", func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/lease/trigger", s.HandleTriggerLeaseSweep)
			r.Post("/payments/trigger", s.HandleTriggerPaymentSweep)
			r.Get("/lease/summary", s.HandleLeaseSummary)
			r.Get("/payments/summary", s.HandlePaymentSummary)
		})

		// Events
		r.Route("/events", func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Get("/", s.HandleListEvents)
		})
	})
}
