package repository

import (
	"context"

	"talent-bridge/internal/database"
)

type User struct {
	ID       int64
	FullName string
	Email    string
	Role     string
	IsActive bool
}

type UserRepository interface {
	FindByID(ctx context.Context, userID int64) (User, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, userID int64) (User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, full_name, email, role, is_active
		 FROM users
		 WHERE user_id = $1`,
		userID,
	)

	var u User
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Role, &u.IsActive); err != nil {
		if database.IsNoRows(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}
