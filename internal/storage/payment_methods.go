package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
)

const paymentColumns = "id, created_at, updated_at, tenant_id, month, amount, paid, due_date, paid_at"

func scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	err := row.Scan(
		&payment.ID, &payment.CreatedAt, &payment.UpdatedAt, &payment.TenantID, &payment.Month,
		&payment.Amount, &payment.Paid, &payment.DueDate, &payment.PaidAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return payment, nil
}

func (s *PostgresStore) queryPayments(ctx context.Context, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// CreatePayment creates a new payment record
func (s *PostgresStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `
		INSERT INTO payments (
			id, created_at, updated_at, tenant_id, month, amount, paid, due_date, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.getDB().ExecContext(ctx, query,
		payment.ID, payment.CreatedAt, payment.UpdatedAt, payment.TenantID, payment.Month,
		payment.Amount, payment.Paid, payment.DueDate, payment.PaidAt,
	)
	return mapError(err)
}

// GetPayment gets a payment by ID
func (s *PostgresStore) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := "SELECT " + paymentColumns + " FROM payments WHERE id = $1"
	return scanPayment(s.getDB().QueryRowContext(ctx, query, id))
}

// ListPayments lists payments, optionally for a single tenant
func (s *PostgresStore) ListPayments(ctx context.Context, tenantID *uuid.UUID) ([]*models.Payment, error) {
	if tenantID != nil {
		return s.queryPayments(ctx,
			"SELECT "+paymentColumns+" FROM payments WHERE tenant_id = $1 ORDER BY created_at DESC", *tenantID)
	}
	return s.queryPayments(ctx, "SELECT "+paymentColumns+" FROM payments ORDER BY created_at DESC")
}

// ListUnpaidPayments lists every payment not yet flagged paid
func (s *PostgresStore) ListUnpaidPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE NOT paid ORDER BY due_date NULLS LAST, created_at")
}

// SetPaymentPaid flags a payment as paid
func (s *PostgresStore) SetPaymentPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) error {
	result, err := s.getDB().ExecContext(ctx,
		"UPDATE payments SET paid = TRUE, paid_at = $2, updated_at = $2 WHERE id = $1",
		id, paidAt,
	)
	if err != nil {
		return mapError(err)
	}
	return expectRow(result)
}
