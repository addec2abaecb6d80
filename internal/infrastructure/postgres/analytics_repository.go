package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de administración.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// CountSupplies total de suministros, en stock bajo y cerca del mínimo.
// "Cerca" = no bajo y quantity <= minimum_threshold + margen.
func (r *AnalyticsRepo) CountSupplies(ctx context.Context, margin int) (total, low, nearLow int, err error) {
	const query = `
	SELECT
	    COUNT(*)                                                                AS total,
	    COUNT(*) FILTER (WHERE quantity <= minimum_threshold)                   AS low,
	    COUNT(*) FILTER (WHERE quantity >  minimum_threshold
	                       AND quantity <= minimum_threshold + $1)              AS near_low
	FROM supplies`
	err = r.pool.QueryRow(ctx, query, margin).Scan(&total, &low, &nearLow)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("count supplies: %w", err)
	}
	return total, low, nearLow, nil
}

// CountRequestsByStatus número de solicitudes por estado.
func (r *AnalyticsRepo) CountRequestsByStatus(ctx context.Context) (map[entity.RequestStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count requests by status: %w", err)
	}
	defer rows.Close()

	out := make(map[entity.RequestStatus]int, 3)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan request status count: %w", err)
		}
		out[entity.RequestStatus(status)] = n
	}
	return out, rows.Err()
}

// CountUsers total de usuarios.
func (r *AnalyticsRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// RequestsSince fecha y estado de las solicitudes creadas desde since.
func (r *AnalyticsRepo) RequestsSince(ctx context.Context, since time.Time) ([]repository.RequestPoint, error) {
	var points []repository.RequestPoint
	err := pgxscan.Select(ctx, r.pool, &points,
		`SELECT created_at, status FROM requests WHERE created_at >= $1 ORDER BY created_at`, since)
	if err != nil {
		return nil, fmt.Errorf("requests since: %w", err)
	}
	return points, nil
}

// LowestStock suministros con menor cantidad.
func (r *AnalyticsRepo) LowestStock(ctx context.Context, limit int) ([]*entity.Supply, error) {
	var list []*entity.Supply
	err := pgxscan.Select(ctx, r.pool, &list,
		`SELECT `+supplyColumns+` FROM supplies ORDER BY quantity, name LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("lowest stock: %w", err)
	}
	return list, nil
}
