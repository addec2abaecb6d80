// Package memstore implementa los repositorios y el TxRunner en memoria para tests.
// Las transacciones se serializan y se revierten si la función devuelve error.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suministros-api/internal/application/ports"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

// Store estado compartido de todos los repositorios.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users    map[string]entity.User
	supplies map[string]entity.Supply
	requests map[string]entity.Request
	audit    []entity.AuditLog
	settings map[string]entity.SystemSetting

	// FailAudit hace fallar las escrituras de auditoría (tests de rollback).
	FailAudit bool
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:    map[string]entity.User{},
		supplies: map[string]entity.Supply{},
		requests: map[string]entity.Request{},
		settings: map[string]entity.SystemSetting{},
	}
}

type snapshot struct {
	users    map[string]entity.User
	supplies map[string]entity.Supply
	requests map[string]entity.Request
	audit    []entity.AuditLog
	settings map[string]entity.SystemSetting
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:    cloneMap(s.users),
		supplies: cloneMap(s.supplies),
		requests: cloneMap(s.requests),
		audit:    append([]entity.AuditLog(nil), s.audit...),
		settings: cloneMap(s.settings),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.supplies, s.requests, s.audit, s.settings =
		snap.users, snap.supplies, snap.requests, snap.audit, snap.settings
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Supplies repositorio de suministros.
func (s *Store) Supplies() *SupplyRepo { return &SupplyRepo{s: s} }

// Requests repositorio de solicitudes.
func (s *Store) Requests() *RequestRepo { return &RequestRepo{s: s} }

// Audit repositorio de auditoría.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }

// Settings repositorio de configuración.
func (s *Store) Settings() *SettingRepo { return &SettingRepo{s: s} }

// Analytics repositorio de consultas del dashboard.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// TxRunner runner transaccional sobre el store.
func (s *Store) TxRunner() ports.TxRunner { return &txRunner{s: s} }

type txRunner struct{ s *Store }

func (r *txRunner) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	snap := r.s.snapshot()
	err := fn(ports.TxRepos{
		Users:    r.s.Users(),
		Supplies: r.s.Supplies(),
		Requests: r.s.Requests(),
		Audit:    r.s.Audit(),
		Settings: r.s.Settings(),
	})
	if err == nil {
		// como Commit en pgx: con el contexto cancelado la tx se revierte
		err = ctx.Err()
	}
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── Helpers de siembra para tests ──

// AddUser inserta un usuario con el rol dado y devuelve su copia.
func (s *Store) AddUser(username, role string) entity.User {
	u := entity.User{ID: uuid.NewString(), Username: username, PasswordHash: "x", Role: role}
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return u
}

// AddSupply inserta un suministro y devuelve su copia.
func (s *Store) AddSupply(name string, quantity, minimum int) entity.Supply {
	sp := entity.Supply{ID: uuid.NewString(), Name: name, Description: name, Quantity: quantity, MinimumThreshold: minimum}
	s.mu.Lock()
	s.supplies[sp.ID] = sp
	s.mu.Unlock()
	return sp
}

// AddRequest inserta una solicitud con el estado dado.
func (s *Store) AddRequest(userID, supplyID string, quantity int, status entity.RequestStatus) entity.Request {
	now := time.Now()
	r := entity.Request{ID: uuid.NewString(), UserID: userID, SupplyID: supplyID, Quantity: quantity, Status: status, CreatedAt: now, UpdatedAt: now}
	s.mu.Lock()
	s.requests[r.ID] = r
	s.mu.Unlock()
	return r
}

// SetSetting fija el valor de una clave.
func (s *Store) SetSetting(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.settings {
		if st.Key == key {
			st.Value = value
			s.settings[id] = st
			return
		}
	}
	id := uuid.NewString()
	s.settings[id] = entity.SystemSetting{ID: id, Key: key, Value: value}
}

// Supply devuelve el estado actual de un suministro.
func (s *Store) Supply(id string) (entity.Supply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.supplies[id]
	return sp, ok
}

// Request devuelve el estado actual de una solicitud.
func (s *Store) Request(id string) (entity.Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	return r, ok
}

// AuditActions acciones registradas en orden de inserción.
func (s *Store) AuditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.audit))
	for _, a := range s.audit {
		out = append(out, a.Action)
	}
	return out
}

// RequestCount número de solicitudes almacenadas.
func (s *Store) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
