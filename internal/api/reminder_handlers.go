package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/models"
)

// HandleTriggerLeaseSweep runs the lease monitor once and returns its events
func (s *RESTServer) HandleTriggerLeaseSweep(w http.ResponseWriter, r *http.Request) {
	events := s.reminders.TriggerLeaseSweep(r.Context())
	s.respondSweep(w, r, models.MonitorLease, events)
}

// HandleTriggerPaymentSweep runs the payment monitor once and returns its events
func (s *RESTServer) HandleTriggerPaymentSweep(w http.ResponseWriter, r *http.Request) {
	events := s.reminders.TriggerPaymentSweep(r.Context())
	s.respondSweep(w, r, models.MonitorPayment, events)
}

func (s *RESTServer) respondSweep(w http.ResponseWriter, r *http.Request, monitor models.Monitor, events []models.SweepEvent) {
	errs := 0
	for _, e := range events {
		if e.IsError() {
			errs++
		}
	}

	log.Info().
		Str("monitor", string(monitor)).
		Str("user_id", claimsFrom(r.Context()).UserID.String()).
		Int("events", len(events)).
		Int("errors", errs).
		Msg("Sweep triggered on demand")

	if events == nil {
		events = []models.SweepEvent{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"monitor": monitor,
		"events":  events,
		"errors":  errs,
	})
}

// HandleLeaseSummary reports tenants leaving today and within the upcoming window
func (s *RESTServer) HandleLeaseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reminders.LeaseSummary(r.Context(), s.now())
	if err != nil {
		log.Error().Err(err).Msg("Lease summary failed")
		s.respondError(w, http.StatusInternalServerError, "failed to build lease summary")
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

// HandlePaymentSummary reports unpaid payments due today and within the upcoming window
func (s *RESTServer) HandlePaymentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reminders.PaymentSummary(r.Context(), s.now())
	if err != nil {
		log.Error().Err(err).Msg("Payment summary failed")
		s.respondError(w, http.StatusInternalServerError, "failed to build payment summary")
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}
