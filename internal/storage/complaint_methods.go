package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
)

const complaintColumns = "id, created_at, updated_at, tenant_id, category, description, status"

// CreateComplaint creates a new complaint
func (s *PostgresStore) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	if complaint.Status == "" {
		complaint.Status = models.ComplaintPending
	}

	now := time.Now()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now

	query := `
		INSERT INTO complaints (id, created_at, updated_at, tenant_id, category, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.getDB().ExecContext(ctx, query,
		complaint.ID, complaint.CreatedAt, complaint.UpdatedAt, complaint.TenantID,
		complaint.Category, complaint.Description, complaint.Status,
	)
	return mapError(err)
}

// ListComplaints lists complaints, optionally for a single tenant
func (s *PostgresStore) ListComplaints(ctx context.Context, tenantID *uuid.UUID) ([]*models.Complaint, error) {
	query := "SELECT " + complaintColumns + " FROM complaints"
	args := []interface{}{}
	if tenantID != nil {
		query += " WHERE tenant_id = $1"
		args = append(args, *tenantID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var complaints []*models.Complaint
	for rows.Next() {
		c := &models.Complaint{}
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.TenantID, &c.Category, &c.Description, &c.Status); err != nil {
			return nil, err
		}
		complaints = append(complaints, c)
	}

	return complaints, rows.Err()
}

// UpdateComplaintStatus moves a complaint to a new status
func (s *PostgresStore) UpdateComplaintStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error {
	if !status.Valid() {
		return ErrInvalidData
	}

	result, err := s.getDB().ExecContext(ctx,
		"UPDATE complaints SET status = $2, updated_at = $3 WHERE id = $1",
		id, status, time.Now(),
	)
	if err != nil {
		return mapError(err)
	}
	return expectRow(result)
}
