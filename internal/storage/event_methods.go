package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
)

const eventLogColumns = "id, created_at, tenant_id, room_id, type, level, code, description, details"

// CreateEventLog persists one sweep event
func (s *PostgresStore) CreateEventLog(ctx context.Context, event *models.EventLog) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := s.getDB().ExecContext(ctx,
		`INSERT INTO event_logs (`+eventLogColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.CreatedAt, event.TenantID, event.RoomID,
		event.Type, event.Level, event.Code, event.Description, event.Details,
	)
	return mapError(err)
}

// conditions accumulates numbered WHERE predicates
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(column, op string, value interface{}) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, fmt.Sprintf("%s %s $%d", column, op, len(c.args)))
}

func (c *conditions) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// eventConditions translates the filters into predicates
func eventConditions(f EventLogFilters) *conditions {
	c := &conditions{}
	if f.TenantID != nil {
		c.add("tenant_id", "=", *f.TenantID)
	}
	if f.RoomID != nil {
		c.add("room_id", "=", *f.RoomID)
	}
	if f.Type != nil {
		c.add("type", "=", *f.Type)
	}
	if f.Level != nil {
		c.add("level", "=", *f.Level)
	}
	if f.StartTime != nil {
		c.add("created_at", ">=", *f.StartTime)
	}
	if f.EndTime != nil {
		c.add("created_at", "<=", *f.EndTime)
	}
	return c
}

// ListEventLogs returns a page of event logs, newest first, and the total matching count
func (s *PostgresStore) ListEventLogs(ctx context.Context, filters EventLogFilters, limit, offset int) ([]*models.EventLog, int64, error) {
	cond := eventConditions(filters)
	where := cond.where()

	var total int64
	if err := s.getDB().QueryRowContext(ctx, "SELECT COUNT(*) FROM event_logs"+where, cond.args...).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	n := len(cond.args)
	query := fmt.Sprintf("SELECT %s FROM event_logs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		eventLogColumns, where, n+1, n+2)
	args := append(cond.args, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	events := []*models.EventLog{}
	for rows.Next() {
		e := &models.EventLog{}
		if err := rows.Scan(
			&e.ID, &e.CreatedAt, &e.TenantID, &e.RoomID,
			&e.Type, &e.Level, &e.Code, &e.Description, &e.Details,
		); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}

	return events, total, rows.Err()
}
