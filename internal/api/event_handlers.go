package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
)

// HandleListEvents lists persisted sweep events
func (s *RESTServer) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := pagination(r)

	var filters storage.EventLogFilters

	if v := query.Get("tenant_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid tenant_id")
			return
		}
		filters.TenantID = &id
	}
	if v := query.Get("room_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid room_id")
			return
		}
		filters.RoomID = &id
	}
	if v := query.Get("type"); v != "" {
		t := models.EventType(v)
		filters.Type = &t
	}
	if v := query.Get("level"); v != "" {
		l := models.EventLevel(v)
		filters.Level = &l
	}
	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"start", &filters.StartTime},
		{"end", &filters.EndTime},
	} {
		v := query.Get(p.key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid "+p.key+" (RFC 3339 expected)")
			return
		}
		*p.dst = &t
	}

	events, total, err := s.store.ListEventLogs(r.Context(), filters, limit, offset)
	if err != nil {
		s.respondStoreError(w, err, "event")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
