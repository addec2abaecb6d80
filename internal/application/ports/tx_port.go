package ports

import (
	"context"

	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Users    repository.UserRepository
	Supplies repository.SupplyRepository
	Requests repository.RequestRepository
	Audit    repository.AuditLogRepository
	Settings repository.SettingRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; en otro caso Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
