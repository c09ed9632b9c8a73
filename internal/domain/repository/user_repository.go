package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"showcase/internal/common"
	"showcase/internal/domain/model"
)

// UserRepository is the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

type sqlUserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &sqlUserRepository{db: db}
}

// Create inserts user and sets its ID. Unique violations on username or email
// surface as common.ErrDuplicate without saying which column collided.
func (r *sqlUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password_hash, github_username, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.HashedPassword, nullIfEmpty(user.GithubUsername), user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrDuplicate
		}
		return fmt.Errorf("userRepository.Create: %w: %w", common.ErrStorage, err)
	}
	return nil
}

func (r *sqlUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, github_username, created_at
	          FROM users WHERE email = $1`
	return r.findOne(ctx, "FindByEmail", query, email)
}

func (r *sqlUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, username, email, password_hash, github_username, created_at
	          FROM users WHERE id = $1`
	return r.findOne(ctx, "FindByID", query, id)
}

func (r *sqlUserRepository) findOne(ctx context.Context, op, query string, arg any) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.GithubUsername, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("userRepository.%s: %w: %w", op, common.ErrStorage, err)
	}
	return user, nil
}
