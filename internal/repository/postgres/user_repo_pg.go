package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"
	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/repository/ports"
)

const userColumns = `id, email, full_name, user_image_url, password_hash, password_salt, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateEmailUser(ctx context.Context, email string, fullName *string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (email, full_name, password_hash, password_salt)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + userColumns

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email, nullString(fullName), passwordHash, passwordSalt); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpsertGoogleUser(ctx context.Context, email string, fullName *string, imageURL *string) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (email, full_name, user_image_url)
        VALUES ($1, $2, $3)
        ON CONFLICT (email) DO UPDATE
        SET full_name = COALESCE(EXCLUDED.full_name, user_account.full_name),
            user_image_url = COALESCE(EXCLUDED.user_image_url, user_account.user_image_url),
            updated_at = NOW()
        RETURNING ` + userColumns

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email, nullString(fullName), nullString(imageURL)); err != nil {
		return nil, err
	}
	return r.withRoles(ctx, &user)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM user_account WHERE email = $1`, email); err != nil {
		return nil, err
	}
	return r.withRoles(ctx, &user)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM user_account WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return r.withRoles(ctx, &user)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) error {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            password_salt = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt)
	return err
}

func (r *UserRepository) withRoles(ctx context.Context, user *domain.User) (*domain.User, error) {
	roles, err := listRoles(ctx, r.db, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
