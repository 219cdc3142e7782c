package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pg-management/pg-server/internal/models"
)

const tenantColumns = "id, created_at, updated_at, user_id, name, phone, join_date, room_id, address, id_info"

func scanTenant(row rowScanner) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.UserID, &tenant.Name,
		&tenant.Phone, &tenant.JoinDate, &tenant.RoomID, &tenant.Address, &tenant.IDInfo,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return tenant, nil
}

// CreateTenant creates a new tenant record
func (s *PostgresStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}

	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	query := `
		INSERT INTO tenants (
			id, created_at, updated_at, user_id, name, phone, join_date, room_id, address, id_info
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.getDB().ExecContext(ctx, query,
		tenant.ID, tenant.CreatedAt, tenant.UpdatedAt, tenant.UserID, tenant.Name,
		tenant.Phone, tenant.JoinDate, tenant.RoomID, tenant.Address, tenant.IDInfo,
	)
	return mapError(err)
}

// GetTenant gets a tenant by ID
func (s *PostgresStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := "SELECT " + tenantColumns + " FROM tenants WHERE id = $1"
	return scanTenant(s.getDB().QueryRowContext(ctx, query, id))
}

// GetTenantByUser gets the tenant record linked to a user
func (s *PostgresStore) GetTenantByUser(ctx context.Context, userID uuid.UUID) (*models.Tenant, error) {
	query := "SELECT " + tenantColumns + " FROM tenants WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1"
	return scanTenant(s.getDB().QueryRowContext(ctx, query, userID))
}

// ListTenants lists all tenants
func (s *PostgresStore) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	query := "SELECT " + tenantColumns + " FROM tenants ORDER BY created_at"
	rows, err := s.getDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}

	return tenants, rows.Err()
}
