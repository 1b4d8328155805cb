package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

var _ repository.MarketRepository = (*MarketRepo)(nil)

// MarketRepo implementación del puerto MarketRepository sobre PostgreSQL.
type MarketRepo struct {
	pool *pgxpool.Pool
}

// NewMarketRepository construye el adaptador de persistencia para mercados.
func NewMarketRepository(pool *pgxpool.Pool) *MarketRepo {
	return &MarketRepo{pool: pool}
}

// Create persiste un nuevo mercado.
func (r *MarketRepo) Create(market *entity.Market) error {
	query := `
		INSERT INTO markets (id, name, city, state, neighborhood, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		market.ID, market.Name, market.City, market.State, market.Neighborhood,
		market.Type, market.CreatedAt, market.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert market: %w", err)
	}
	return nil
}

// GetByID obtiene un mercado por ID.
func (r *MarketRepo) GetByID(id string) (*entity.Market, error) {
	query := `
		SELECT id, name, city, state, neighborhood, COALESCE(type, ''), created_at, updated_at
		FROM markets WHERE id = $1`
	var m entity.Market
	err := r.pool.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.City, &m.State, &m.Neighborhood, &m.Type, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get market: %w", err)
	}
	return &m, nil
}

// Update actualiza un mercado.
func (r *MarketRepo) Update(market *entity.Market) error {
	query := `
		UPDATE markets SET name = $2, city = $3, state = $4, neighborhood = $5, type = NULLIF($6, ''), updated_at = $7
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		market.ID, market.Name, market.City, market.State, market.Neighborhood,
		market.Type, market.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update market: %w", err)
	}
	return nil
}

// List lista mercados con paginación.
func (r *MarketRepo) List(limit, offset int) ([]*entity.Market, error) {
	query := `
		SELECT id, name, city, state, neighborhood, COALESCE(type, ''), created_at, updated_at
		FROM markets ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	defer rows.Close()
	return scanMarkets(rows)
}

// ListAll lista todos los mercados (catálogos de filtro y consulta pública).
func (r *MarketRepo) ListAll() ([]*entity.Market, error) {
	query := `
		SELECT id, name, city, state, neighborhood, COALESCE(type, ''), created_at, updated_at
		FROM markets ORDER BY name`
	rows, err := r.pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list all markets: %w", err)
	}
	defer rows.Close()
	return scanMarkets(rows)
}

func scanMarkets(rows pgx.Rows) ([]*entity.Market, error) {
	var list []*entity.Market
	for rows.Next() {
		var m entity.Market
		if err := rows.Scan(&m.ID, &m.Name, &m.City, &m.State, &m.Neighborhood, &m.Type, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan market: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete elimina un mercado por ID.
func (r *MarketRepo) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM markets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete market: %w", err)
	}
	return nil
}
