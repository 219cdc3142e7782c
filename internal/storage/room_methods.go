package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
)

const roomColumns = "id, created_at, updated_at, room_no, room_type, rent, status"

func scanRoom(row rowScanner) (*models.Room, error) {
	room := &models.Room{}
	err := row.Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt, &room.RoomNo, &room.RoomType, &room.Rent, &room.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return room, nil
}

// CreateRoom creates a new room. New rooms are Available unless a status is given.
func (s *PostgresStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	query := `
		INSERT INTO rooms (id, created_at, updated_at, room_no, room_type, rent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.getDB().ExecContext(ctx, query,
		room.ID, room.CreatedAt, room.UpdatedAt, room.RoomNo, room.RoomType, room.Rent, room.Status,
	)
	return mapError(err)
}

// GetRoom gets a room by ID
func (s *PostgresStore) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	query := "SELECT " + roomColumns + " FROM rooms WHERE id = $1"
	return scanRoom(s.getDB().QueryRowContext(ctx, query, id))
}

// ListRooms lists rooms, optionally only those with the given status
func (s *PostgresStore) ListRooms(ctx context.Context, status *models.RoomStatus) ([]*models.Room, error) {
	query := "SELECT " + roomColumns + " FROM rooms"
	args := []interface{}{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY room_no"

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// SetRoomStatus updates the occupancy status of a room
func (s *PostgresStore) SetRoomStatus(ctx context.Context, id uuid.UUID, status models.RoomStatus) error {
	result, err := s.getDB().ExecContext(ctx,
		"UPDATE rooms SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now(),
	)
	if err != nil {
		return mapError(err)
	}
	return expectRow(result)
}

// OccupyRoom marks an Available room Occupied. The status check and the write
// are one statement, so two concurrent callers cannot both claim the room.
// It returns ErrRoomUnavailable when the room exists but is not Available.
func (s *PostgresStore) OccupyRoom(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx,
		"UPDATE rooms SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4",
		id, models.RoomOccupied, time.Now(), models.RoomAvailable,
	)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	var exists bool
	if err := s.getDB().QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)", id).Scan(&exists); err != nil {
		return mapError(err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrRoomUnavailable
}
