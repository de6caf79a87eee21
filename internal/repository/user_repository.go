package repository

import (
	"context"
	"database/sql"
	"errors"

	"cv-forge/internal/database"
	userdomain "cv-forge/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserRepository interface {
	Register(ctx context.Context, u userdomain.User) (int64, error)
	Authenticate(ctx context.Context, username, password string) (userdomain.User, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Register(ctx context.Context, u userdomain.User) (int64, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id`,
		u.Username, u.Email, u.Password,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, translateError(err)
	}
	return id, nil
}

// Authenticate matches the stored credential by exact equality. The password
// is blanked on the returned user.
func (r *PostgresUserRepository) Authenticate(ctx context.Context, username, password string) (userdomain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, username, email FROM users WHERE username = $1 AND password = $2`,
		username, password,
	)

	var u userdomain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return userdomain.User{}, ErrInvalidCredentials
		}
		return userdomain.User{}, translateError(err)
	}
	return u, nil
}
