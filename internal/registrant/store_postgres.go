// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package registrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/roster/internal/platform/database/schema"
	"github.com/taibuivan/roster/internal/platform/dberr"
	"github.com/taibuivan/roster/internal/platform/postgres"
)

const resourceUser = "User"

// PostgresRepository implements [Repository] on the users table.
type PostgresRepository struct {
	pool postgres.Querier
}

// NewPostgresRepository creates a repository backed by pool.
func NewPostgresRepository(pool postgres.Querier) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectColumns is the column list every read scans, in [scanUser] order.
var selectColumns = strings.Join(schema.RegistrantUser.Columns(), ", ")

func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.RegistrantUser.Table, schema.RegistrantUser.ID)

	user, err := scanUser(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_id", resourceUser, conflictEmailMessage)
	}
	return user, nil
}

func (repository *PostgresRepository) List(ctx context.Context) ([]*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`,
		selectColumns, schema.RegistrantUser.Table, schema.RegistrantUser.ID)

	return repository.queryUsers(ctx, "list_users", query)
}

/*
Create inserts a record and fills its generated ID and CreatedAt.

The unique index on email is the only duplicate check, so concurrent
registrations with the same email resolve to exactly one row.
*/
func (repository *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.RegistrantUser.Table,
		schema.RegistrantUser.Name, schema.RegistrantUser.Email, schema.RegistrantUser.Mobile,
		schema.RegistrantUser.Address, schema.RegistrantUser.IPAddress, schema.RegistrantUser.IPLocation,
		schema.RegistrantUser.ID, schema.RegistrantUser.CreatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.Mobile, user.Address, user.IPAddress, user.IPLocation,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_user", resourceUser, conflictEmailMessage)
	}
	return nil
}

/*
Update writes only the fields the patch sets.

The SET clause is assembled dynamically; id and created_at are never part of
it. An empty patch reads the current row instead of issuing an UPDATE.
*/
func (repository *PostgresRepository) Update(ctx context.Context, id int64, patch Patch) (*User, error) {
	if patch.IsEmpty() {
		return repository.FindByID(ctx, id)
	}

	var queryBuilder strings.Builder
	args := make([]any, 0, 7)
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf("UPDATE %s SET ", schema.RegistrantUser.Table))

	assignments := []struct {
		column string
		value  *string
	}{
		{schema.RegistrantUser.Name, patch.Name},
		{schema.RegistrantUser.Email, patch.Email},
		{schema.RegistrantUser.Mobile, patch.Mobile},
		{schema.RegistrantUser.Address, patch.Address},
		{schema.RegistrantUser.IPAddress, patch.IPAddress},
		{schema.RegistrantUser.IPLocation, patch.IPLocation},
	}

	for _, assignment := range assignments {
		if assignment.value == nil {
			continue
		}
		if argID > 1 {
			queryBuilder.WriteString(", ")
		}
		queryBuilder.WriteString(fmt.Sprintf("%s = $%d", assignment.column, argID))
		args = append(args, *assignment.value)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE %s = $%d RETURNING %s",
		schema.RegistrantUser.ID, argID, selectColumns))
	args = append(args, id)

	user, err := scanUser(repository.pool.QueryRow(ctx, queryBuilder.String(), args...))
	if err != nil {
		return nil, dberr.Wrap(err, "update_user", resourceUser, conflictEmailMessage)
	}
	return user, nil
}

func (repository *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.RegistrantUser.Table, schema.RegistrantUser.ID)

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "delete_user", resourceUser, conflictEmailMessage)
	}
	return tag.RowsAffected() > 0, nil
}

// Search matches query as a literal substring; LIKE wildcards in it are escaped.
func (repository *PostgresRepository) Search(ctx context.Context, query string) ([]*User, error) {
	if strings.TrimSpace(query) == "" {
		return repository.List(ctx)
	}

	conditions := make([]string, 0, len(schema.RegistrantUser.SearchColumns()))
	for _, column := range schema.RegistrantUser.SearchColumns() {
		conditions = append(conditions, fmt.Sprintf(`%s ILIKE $1 ESCAPE '\'`, column))
	}

	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s ASC`,
		selectColumns, schema.RegistrantUser.Table,
		strings.Join(conditions, " OR "), schema.RegistrantUser.ID)

	return repository.queryUsers(ctx, "search_users", sql, "%"+EscapeLike(query)+"%")
}

// EscapeLike escapes the LIKE metacharacters in s with a backslash.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// # Helpers

func (repository *PostgresRepository) queryUsers(ctx context.Context, action, query string, args ...any) ([]*User, error) {
	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action, resourceUser, conflictEmailMessage)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action, resourceUser, conflictEmailMessage)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action, resourceUser, conflictEmailMessage)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.Address,
		&user.IPAddress,
		&user.IPLocation,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
