package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo registro de auditoría sobre PostgreSQL. Solo inserta y lee.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador.
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada.
func (r *AuditLogRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO audit_logs (id, user_id, action, created_at) VALUES ($1, $2, $3, $4)`,
		l.ID, l.UserID, l.Action, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List página de entradas, más recientes primero, con el username.
func (r *AuditLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditLog, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	query := `
		SELECT a.id, a.user_id, a.action, a.created_at, u.username
		FROM audit_logs a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC, a.id
		LIMIT $1 OFFSET $2`
	var list []*entity.AuditLog
	if err := pgxscan.Select(ctx, r.q, &list, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return list, total, nil
}

// DeleteByUser elimina las entradas de un usuario (solo al eliminar el usuario).
func (r *AuditLogRepo) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM audit_logs WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete audit logs by user: %w", err)
	}
	return nil
}
