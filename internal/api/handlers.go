package api

import (
	"net/http"
)

// HandleHealth handles health check
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": s.now().UTC(),
	})
}

// HandleRoot describes the service
func (s *RESTServer) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":      s.config.Server.Name,
		"version":   s.config.Server.Version,
		"reminders": s.config.Reminder.Enabled,
	})
}
