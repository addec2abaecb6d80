package ports

import (
	"time"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// InventoryReportGenerator genera el reporte de inventario (PDF) a partir de los suministros.
type InventoryReportGenerator interface {
	GenerateInventoryReport(supplies []*entity.Supply, generatedAt time.Time) ([]byte, error)
}
