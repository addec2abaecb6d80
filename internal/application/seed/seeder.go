// Package seed carga los datos iniciales: usuarios, suministros y configuración por defecto.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/application/settings"
	"github.com/jhoicas/suministros-api/internal/application/usecase"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

// DefaultUser usuario inicial.
type DefaultUser struct {
	Username string
	Password string
	Role     string
}

// DefaultSupply suministro inicial.
type DefaultSupply struct {
	Name             string
	Description      string
	Quantity         int
	MinimumThreshold int
}

// Datos iniciales.
var (
	DefaultUsers = []DefaultUser{
		{Username: "admin", Password: "admin123", Role: entity.RoleAdmin},
		{Username: "staff1", Password: "staff123", Role: entity.RoleStaff},
	}
	DefaultSupplies = []DefaultSupply{
		{Name: "Printer Paper", Description: "Papel para impresora A4, 500 hojas", Quantity: 50, MinimumThreshold: 10},
		{Name: "Ballpoint Pens", Description: "Bolígrafos azules, caja x 12", Quantity: 100, MinimumThreshold: 20},
		{Name: "Sticky Notes", Description: "Notas adhesivas 3x3", Quantity: 30, MinimumThreshold: 5},
	}
	DefaultSettings = []entity.SystemSetting{
		{Key: entity.SettingAllRequestsVisible, Value: "false", Description: "Permite que el personal vea las solicitudes de todos los usuarios"},
		{Key: entity.SettingMaxRequestQuantity, Value: fmt.Sprint(settings.DefaultMaxRequestQuantity), Description: "Cantidad máxima permitida por solicitud"},
		{Key: entity.SettingLowStockWarning, Value: fmt.Sprint(settings.DefaultLowStockWarning), Description: "Margen sobre el mínimo para advertir que un suministro se acerca al stock bajo"},
	}
)

// Options opciones de la carga.
type Options struct {
	DemoRequests int // solicitudes PENDING de ejemplo del primer STAFF
}

// Result resumen de lo insertado.
type Result struct {
	Users, Supplies, Settings, Requests int
}

// Seeder carga los datos en una sola transacción. Es idempotente: usuarios y suministros
// existentes (por nombre) no se modifican.
type Seeder struct {
	txRunner ports.TxRunner
	now      func() time.Time
}

// NewSeeder construye el seeder.
func NewSeeder(txRunner ports.TxRunner) *Seeder {
	return &Seeder{txRunner: txRunner, now: time.Now}
}

// Run ejecuta la carga.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}
	err := s.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		now := s.now()
		var staff *entity.User
		for _, du := range DefaultUsers {
			u, err := repos.Users.GetByUsername(ctx, du.Username)
			if err != nil {
				return err
			}
			if u == nil {
				u, err = usecase.NewUser(du.Username, du.Password, du.Role, now)
				if err != nil {
					return err
				}
				if err := repos.Users.Create(ctx, u); err != nil {
					return fmt.Errorf("usuario %s: %w", du.Username, err)
				}
				res.Users++
			}
			if staff == nil && u.Role == entity.RoleStaff {
				staff = u
			}
		}

		existing, err := repos.Supplies.List(ctx, repository.SupplyFilter{})
		if err != nil {
			return err
		}
		byName := make(map[string]*entity.Supply, len(existing))
		for _, sp := range existing {
			byName[sp.Name] = sp
		}
		var supplies []*entity.Supply
		for _, ds := range DefaultSupplies {
			sp, ok := byName[ds.Name]
			if !ok {
				sp = &entity.Supply{
					ID:               uuid.New().String(),
					Name:             ds.Name,
					Description:      ds.Description,
					Quantity:         ds.Quantity,
					MinimumThreshold: ds.MinimumThreshold,
					CreatedAt:        now,
					UpdatedAt:        now,
				}
				if err := repos.Supplies.Create(ctx, sp); err != nil {
					return fmt.Errorf("suministro %s: %w", ds.Name, err)
				}
				res.Supplies++
			}
			supplies = append(supplies, sp)
		}

		for _, st := range DefaultSettings {
			st := st
			st.ID = uuid.New().String()
			if err := repos.Settings.Upsert(ctx, &st); err != nil {
				return err
			}
			res.Settings++
		}

		if staff == nil || len(supplies) == 0 {
			return nil
		}
		for i := 0; i < opts.DemoRequests; i++ {
			sp := supplies[i%len(supplies)]
			req := &entity.Request{
				ID:        uuid.New().String(),
				UserID:    staff.ID,
				SupplyID:  sp.ID,
				Quantity:  1 + i%3,
				Status:    entity.RequestPending,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repos.Requests.Create(ctx, req); err != nil {
				return err
			}
			res.Requests++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
