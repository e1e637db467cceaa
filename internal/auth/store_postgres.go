// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/roster/internal/platform/database/schema"
	"github.com/taibuivan/roster/internal/platform/dberr"
	"github.com/taibuivan/roster/internal/platform/postgres"
)

// PostgresAdminRepository implements [AdminRepository] on the admins table.
type PostgresAdminRepository struct {
	pool postgres.Querier
}

// NewPostgresAdminRepository creates a new PostgreSQL admin repository.
func NewPostgresAdminRepository(pool postgres.Querier) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

var adminColumns = strings.Join(schema.AdminAccount.Columns(), ", ")

// FindByUsername retrieves an admin by exact username.
func (repository *PostgresAdminRepository) FindByUsername(ctx context.Context, username string) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		adminColumns, schema.AdminAccount.Table, schema.AdminAccount.Username)

	admin, err := scanAdmin(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "find_admin_by_username", resourceAdmin, conflictUsernameMessage)
	}
	return admin, nil
}

// FindByID retrieves an admin by primary key.
func (repository *PostgresAdminRepository) FindByID(ctx context.Context, id int64) (*Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		adminColumns, schema.AdminAccount.Table, schema.AdminAccount.ID)

	admin, err := scanAdmin(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_admin_by_id", resourceAdmin, conflictUsernameMessage)
	}
	return admin, nil
}

// Create inserts an admin and fills the generated ID and CreatedAt.
func (repository *PostgresAdminRepository) Create(ctx context.Context, admin *Admin) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s, %s`,
		schema.AdminAccount.Table,
		schema.AdminAccount.Username, schema.AdminAccount.PasswordHash,
		schema.AdminAccount.ID, schema.AdminAccount.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query, admin.Username, admin.PasswordHash).
		Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_admin", resourceAdmin, conflictUsernameMessage)
	}
	return nil
}

func scanAdmin(row pgx.Row) (*Admin, error) {
	admin := &Admin{}
	if err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt); err != nil {
		return nil, err
	}
	return admin, nil
}
