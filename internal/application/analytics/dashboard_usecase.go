// Package analytics contiene el dashboard de administración: totales de inventario,
// solicitudes por estado y resumen mensual.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/suministros-api/internal/application/dto"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

const (
	dashboardLowestStock = 10 // suministros en el widget de stock
	dashboardMonths      = 6  // meses del resumen de solicitudes
)

// DashboardUseCase genera el resumen del panel de administración.
//
// Fuente de datos: AnalyticsRepository (consultas read-only), en paralelo.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	settings      *settings.Resolver
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, resolver *settings.Resolver) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, settings: resolver, now: time.Now}
}

// GetSummary construye el DashboardDTO.
//
// Cuatro consultas en paralelo:
//  1. CountSupplies(margen)  → totales de inventario
//  2. CountRequestsByStatus  → solicitudes por estado
//  3. RequestsSince(6 meses) → resumen mensual
//  4. LowestStock(10)        → widget de stock
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	margin, err := uc.settings.LowStockWarning(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	since := time.Date(now.Year(), now.Month()-dashboardMonths+1, 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las consultas DB ──────────────────────────
	type suppliesResult struct {
		total, low, near int
		err              error
	}
	type statusResult struct {
		counts map[entity.RequestStatus]int
		users  int
		err    error
	}
	type pointsResult struct {
		points []repository.RequestPoint
		err    error
	}
	type lowestResult struct {
		supplies []*entity.Supply
		err      error
	}

	suppliesCh := make(chan suppliesResult, 1)
	statusCh := make(chan statusResult, 1)
	pointsCh := make(chan pointsResult, 1)
	lowestCh := make(chan lowestResult, 1)

	go func() {
		total, low, near, err := uc.analyticsRepo.CountSupplies(ctx, margin)
		suppliesCh <- suppliesResult{total, low, near, err}
	}()
	go func() {
		counts, err := uc.analyticsRepo.CountRequestsByStatus(ctx)
		if err != nil {
			statusCh <- statusResult{err: err}
			return
		}
		users, err := uc.analyticsRepo.CountUsers(ctx)
		statusCh <- statusResult{counts, users, err}
	}()
	go func() {
		points, err := uc.analyticsRepo.RequestsSince(ctx, since)
		pointsCh <- pointsResult{points, err}
	}()
	go func() {
		list, err := uc.analyticsRepo.LowestStock(ctx, dashboardLowestStock)
		lowestCh <- lowestResult{list, err}
	}()

	sup := <-suppliesCh
	st := <-statusCh
	pts := <-pointsCh
	lowest := <-lowestCh

	if sup.err != nil {
		return nil, fmt.Errorf("dashboard: totales de inventario: %w", sup.err)
	}
	if st.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes por estado: %w", st.err)
	}
	if pts.err != nil {
		return nil, fmt.Errorf("dashboard: resumen mensual: %w", pts.err)
	}
	if lowest.err != nil {
		return nil, fmt.Errorf("dashboard: stock más bajo: %w", lowest.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	byStatus := map[string]int{
		string(entity.RequestPending):  st.counts[entity.RequestPending],
		string(entity.RequestApproved): st.counts[entity.RequestApproved],
		string(entity.RequestDenied):   st.counts[entity.RequestDenied],
	}
	levels := make([]dto.StockLevelDTO, 0, len(lowest.supplies))
	for _, s := range lowest.supplies {
		status := "OK"
		if s.IsLowStock() {
			status = "LOW"
		}
		levels = append(levels, dto.StockLevelDTO{
			SupplyID:         s.ID,
			Name:             s.Name,
			Quantity:         s.Quantity,
			MinimumThreshold: s.MinimumThreshold,
			Status:           status,
		})
	}
	return &dto.DashboardDTO{
		Totals: dto.DashboardTotals{
			Supplies:        sup.total,
			LowStock:        sup.low,
			NearLowStock:    sup.near,
			PendingRequests: st.counts[entity.RequestPending],
			Users:           st.users,
		},
		RequestsByStatus: byStatus,
		MonthlyOverview:  monthlyOverview(pts.points, since, dashboardMonths),
		LowestStock:      levels,
	}, nil
}

// monthlyOverview agrupa las solicitudes por mes (YYYY-MM) desde since; incluye meses vacíos.
func monthlyOverview(points []repository.RequestPoint, since time.Time, months int) []dto.MonthlyRequests {
	out := make([]dto.MonthlyRequests, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		label := since.AddDate(0, i, 0).Format("2006-01")
		out[i].Month = label
		index[label] = i
	}
	for _, p := range points {
		i, ok := index[p.CreatedAt.In(since.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		out[i].Total++
		switch p.Status {
		case entity.RequestApproved:
			out[i].Approved++
		case entity.RequestDenied:
			out[i].Denied++
		case entity.RequestPending:
			out[i].Pending++
		}
	}
	return out
}
