package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

var _ repository.IdentityRepository = (*IdentityRepo)(nil)

// IdentityRepo implementación del puerto IdentityRepository sobre PostgreSQL.
// Las identidades guardan credenciales y metadata de registro; los perfiles
// de aplicación viven en la tabla users.
type IdentityRepo struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository construye el adaptador de persistencia para identidades.
func NewIdentityRepository(pool *pgxpool.Pool) *IdentityRepo {
	return &IdentityRepo{pool: pool}
}

// Create persiste una nueva identidad.
func (r *IdentityRepo) Create(identity *entity.Identity) error {
	query := `
		INSERT INTO identities (id, email, password_hash, name, role, company_id, confirmed, confirm_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(context.Background(), query,
		identity.ID, identity.Email, identity.PasswordHash, identity.Name, identity.Role,
		identity.CompanyID, identity.Confirmed, identity.ConfirmToken,
		identity.CreatedAt, identity.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// GetByID obtiene una identidad por ID.
func (r *IdentityRepo) GetByID(id string) (*entity.Identity, error) {
	return r.findOne(`id = $1`, id)
}

// GetByEmail obtiene una identidad por email.
func (r *IdentityRepo) GetByEmail(email string) (*entity.Identity, error) {
	return r.findOne(`email = $1`, email)
}

// GetByConfirmToken obtiene una identidad por su token de confirmación.
func (r *IdentityRepo) GetByConfirmToken(token string) (*entity.Identity, error) {
	return r.findOne(`confirm_token = $1`, token)
}

func (r *IdentityRepo) findOne(where string, arg any) (*entity.Identity, error) {
	query := `
		SELECT id, email, password_hash, name, role, company_id, confirmed, confirm_token, created_at, updated_at
		FROM identities WHERE ` + where
	var i entity.Identity
	err := r.pool.QueryRow(context.Background(), query, arg).Scan(
		&i.ID, &i.Email, &i.PasswordHash, &i.Name, &i.Role,
		&i.CompanyID, &i.Confirmed, &i.ConfirmToken,
		&i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return &i, nil
}

// Update actualiza una identidad (confirmación, credenciales).
func (r *IdentityRepo) Update(identity *entity.Identity) error {
	query := `
		UPDATE identities SET email = $2, password_hash = $3, name = $4, role = $5,
			company_id = $6, confirmed = $7, confirm_token = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		identity.ID, identity.Email, identity.PasswordHash, identity.Name, identity.Role,
		identity.CompanyID, identity.Confirmed, identity.ConfirmToken, identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	return nil
}
