package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/suministros-api/internal/domain"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	"github.com/jhoicas/suministros-api/internal/domain/repository"
)

var (
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.SupplyRepository    = (*SupplyRepo)(nil)
	_ repository.RequestRepository   = (*RequestRepo)(nil)
	_ repository.AuditLogRepository  = (*AuditRepo)(nil)
	_ repository.SettingRepository   = (*SettingRepo)(nil)
	_ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)
)

// checkUUID replica el error 22P02 de Postgres: las columnas id son UUID.
func checkUUID(id string) error {
	if !domain.ValidID(id) {
		return fmt.Errorf("memstore: sintaxis inválida para uuid: %q", id)
	}
	return nil
}

// ── Users ──

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.users {
		if id != u.ID && existing.Username == u.Username {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.UserWithStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.UserWithStats, 0, len(r.s.users))
	for _, u := range r.s.users {
		n := 0
		for _, req := range r.s.requests {
			if req.UserID == u.ID {
				n++
			}
		}
		out = append(out, &entity.UserWithStats{User: u, RequestCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// LockAndCount: el TxRunner ya serializa las transacciones.
func (r *UserRepo) LockAndCount(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

func (r *UserRepo) LockAdmins(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, u := range r.s.users {
		if u.Role == entity.RoleAdmin {
			n++
		}
	}
	return n, nil
}

// ── Supplies ──

// SupplyRepo implementación en memoria de SupplyRepository.
type SupplyRepo struct{ s *Store }

func (r *SupplyRepo) Create(_ context.Context, sp *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.supplies {
		if existing.Name == sp.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.supplies[sp.ID] = *sp
	return nil
}

func (r *SupplyRepo) GetByID(_ context.Context, id string) (*entity.Supply, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.supplies[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplyRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Supply, error) {
	return r.GetByID(ctx, id)
}

func (r *SupplyRepo) Update(_ context.Context, sp *entity.Supply) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.supplies[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.supplies {
		if id != sp.ID && existing.Name == sp.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.supplies[sp.ID] = *sp
	return nil
}

func (r *SupplyRepo) SetQuantity(_ context.Context, id string, quantity int) (*entity.Supply, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.supplies[id]
	if !ok {
		return nil, nil
	}
	sp.Quantity = quantity
	sp.UpdatedAt = time.Now()
	r.s.supplies[id] = sp
	return &sp, nil
}

// DecrementIfAvailable misma semántica que el UPDATE condicional: check y resta bajo un solo lock.
func (r *SupplyRepo) DecrementIfAvailable(_ context.Context, id string, n int) (*entity.Supply, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.supplies[id]
	if !ok || sp.Quantity < n {
		return nil, nil
	}
	sp.Quantity -= n
	sp.UpdatedAt = time.Now()
	r.s.supplies[id] = sp
	return &sp, nil
}

// Delete elimina el suministro y en cascada sus solicitudes.
func (r *SupplyRepo) Delete(_ context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.supplies, id)
	for rid, req := range r.s.requests {
		if req.SupplyID == id {
			delete(r.s.requests, rid)
		}
	}
	return nil
}

func (r *SupplyRepo) List(_ context.Context, f repository.SupplyFilter) ([]*entity.Supply, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Supply, 0, len(r.s.supplies))
	for _, sp := range r.s.supplies {
		if f.LowStockOnly && !sp.IsLowStock() {
			continue
		}
		sp := sp
		out = append(out, &sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Requests ──

// RequestRepo implementación en memoria de RequestRepository.
type RequestRepo struct{ s *Store }

// denormalize completa los campos de join; requiere r.s.mu tomado.
func (r *RequestRepo) denormalize(req entity.Request) *entity.Request {
	if sp, ok := r.s.supplies[req.SupplyID]; ok {
		req.SupplyName = sp.Name
		req.SupplyQuantity = sp.Quantity
	}
	if u, ok := r.s.users[req.UserID]; ok {
		req.Username = u.Username
	}
	return &req
}

func (r *RequestRepo) Create(_ context.Context, req *entity.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.supplies[req.SupplyID]; !ok {
		return errors.New("memstore: supply inexistente")
	}
	r.s.requests[req.ID] = *req
	return nil
}

func (r *RequestRepo) GetByID(_ context.Context, id string) (*entity.Request, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return r.denormalize(req), nil
}

func (r *RequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *RequestRepo) UpdateStatusIfPending(_ context.Context, id string, status entity.RequestStatus, processedBy string, at time.Time) (bool, error) {
	if err := checkUUID(id); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.Status != entity.RequestPending {
		return false, nil
	}
	req.Status = status
	req.ProcessedBy = &processedBy
	req.ProcessedAt = &at
	req.UpdatedAt = at
	r.s.requests[id] = req
	return true, nil
}

func (r *RequestRepo) List(_ context.Context, f repository.RequestFilter) ([]*entity.Request, error) {
	if f.UserID != "" {
		if err := checkUUID(f.UserID); err != nil {
			return nil, err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Request, 0)
	for _, req := range r.s.requests {
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.UserID != "" && req.UserID != f.UserID {
			continue
		}
		out = append(out, r.denormalize(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *RequestRepo) ListRecentBySupply(ctx context.Context, supplyID string, limit int) ([]*entity.Request, error) {
	if err := checkUUID(supplyID); err != nil {
		return nil, err
	}
	all, _ := r.List(ctx, repository.RequestFilter{})
	out := make([]*entity.Request, 0, limit)
	for _, req := range all {
		if req.SupplyID == supplyID && len(out) < limit {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *RequestRepo) HasPendingForSupply(_ context.Context, supplyID string) (bool, error) {
	if err := checkUUID(supplyID); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.SupplyID == supplyID && req.Status == entity.RequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *RequestRepo) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, req := range r.s.requests {
		if req.UserID == userID {
			delete(r.s.requests, id)
		}
	}
	return nil
}

// ── Audit ──

// AuditRepo implementación en memoria de AuditLogRepository.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailAudit {
		return errors.New("memstore: audit no disponible")
	}
	r.s.audit = append(r.s.audit, *l)
	return nil
}

func (r *AuditRepo) List(_ context.Context, limit, offset int) ([]*entity.AuditLog, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := len(r.s.audit)
	out := make([]*entity.AuditLog, 0, limit)
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		l := r.s.audit[i]
		if u, ok := r.s.users[l.UserID]; ok {
			l.Username = u.Username
		}
		out = append(out, &l)
	}
	return out, total, nil
}

func (r *AuditRepo) DeleteByUser(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.audit[:0:0]
	for _, l := range r.s.audit {
		if l.UserID != userID {
			kept = append(kept, l)
		}
	}
	r.s.audit = kept
	return nil
}

// ── Settings ──

// SettingRepo implementación en memoria de SettingRepository.
type SettingRepo struct{ s *Store }

func (r *SettingRepo) GetByKey(_ context.Context, key string) (*entity.SystemSetting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.settings {
		if st.Key == key {
			return &st, nil
		}
	}
	return nil, nil
}

func (r *SettingRepo) GetByID(_ context.Context, id string) (*entity.SystemSetting, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.settings[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *SettingRepo) List(_ context.Context) ([]*entity.SystemSetting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.SystemSetting, 0, len(r.s.settings))
	for _, st := range r.s.settings {
		st := st
		out = append(out, &st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *SettingRepo) UpdateValue(_ context.Context, id, value string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.settings[id]
	if !ok {
		return domain.ErrNotFound
	}
	st.Value = value
	st.UpdatedAt = time.Now()
	r.s.settings[id] = st
	return nil
}

func (r *SettingRepo) Upsert(_ context.Context, setting *entity.SystemSetting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, st := range r.s.settings {
		if st.Key == setting.Key {
			st.Value = setting.Value
			st.Description = setting.Description
			r.s.settings[id] = st
			return nil
		}
	}
	r.s.settings[setting.ID] = *setting
	return nil
}

// ── Analytics ──

// AnalyticsRepo implementación en memoria de AnalyticsRepository.
type AnalyticsRepo struct{ s *Store }

func (r *AnalyticsRepo) CountSupplies(_ context.Context, margin int) (int, int, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var low, near int
	for _, sp := range r.s.supplies {
		if sp.IsLowStock() {
			low++
		} else if sp.IsNearLowStock(margin) {
			near++
		}
	}
	return len(r.s.supplies), low, near, nil
}

func (r *AnalyticsRepo) CountRequestsByStatus(_ context.Context) (map[entity.RequestStatus]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[entity.RequestStatus]int{}
	for _, req := range r.s.requests {
		out[req.Status]++
	}
	return out, nil
}

func (r *AnalyticsRepo) CountUsers(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

func (r *AnalyticsRepo) RequestsSince(_ context.Context, since time.Time) ([]repository.RequestPoint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repository.RequestPoint
	for _, req := range r.s.requests {
		if !req.CreatedAt.Before(since) {
			out = append(out, repository.RequestPoint{CreatedAt: req.CreatedAt, Status: req.Status})
		}
	}
	return out, nil
}

func (r *AnalyticsRepo) LowestStock(ctx context.Context, limit int) ([]*entity.Supply, error) {
	r.s.mu.Lock()
	all := make([]*entity.Supply, 0, len(r.s.supplies))
	for _, sp := range r.s.supplies {
		sp := sp
		all = append(all, &sp)
	}
	r.s.mu.Unlock()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Quantity != all[j].Quantity {
			return all[i].Quantity < all[j].Quantity
		}
		return all[i].Name < all[j].Name
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
