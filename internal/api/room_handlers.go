package api

import (
	"net/http"

	"github.com/pg-management/pg-server/internal/models"
)

// HandleListRooms lists rooms, optionally filtered by ?status=
func (s *RESTServer) HandleListRooms(w http.ResponseWriter, r *http.Request) {
	var status *models.RoomStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := models.RoomStatus(v)
		if st != models.RoomAvailable && st != models.RoomOccupied {
			s.respondError(w, http.StatusBadRequest, "status must be Available or Occupied")
			return
		}
		status = &st
	}

	rooms, err := s.store.ListRooms(r.Context(), status)
	if err != nil {
		s.respondStoreError(w, err, "room")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// HandleGetRoom gets a room
func (s *RESTServer) HandleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	room, err := s.store.GetRoom(r.Context(), id)
	if err != nil {
		s.respondStoreError(w, err, "room")
		return
	}

	s.respondJSON(w, http.StatusOK, room)
}

// HandleCreateRoom creates a room
func (s *RESTServer) HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomNo   string `json:"room_no" validate:"required,max=32"`
		RoomType string `json:"room_type" validate:"required"`
		Rent     int    `json:"rent" validate:"min=0"`
	}
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	room := &models.Room{
		RoomNo:   req.RoomNo,
		RoomType: req.RoomType,
		Rent:     req.Rent,
		Status:   models.RoomAvailable,
	}
	if err := s.store.CreateRoom(r.Context(), room); err != nil {
		s.respondStoreError(w, err, "room")
		return
	}

	s.respondJSON(w, http.StatusCreated, room)
}
