package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

// ─────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────

type fakeTaskRepo struct {
	items map[string]*entity.DelegatedTask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{items: make(map[string]*entity.DelegatedTask)}
}

func (r *fakeTaskRepo) Create(t *entity.DelegatedTask) error {
	r.items[t.ID] = t
	return nil
}

func (r *fakeTaskRepo) GetByID(id string) (*entity.DelegatedTask, error) {
	return r.items[id], nil
}

func (r *fakeTaskRepo) Update(t *entity.DelegatedTask) error {
	if _, ok := r.items[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[t.ID] = t
	return nil
}

func (r *fakeTaskRepo) ListByCompany(companyID string) ([]*entity.DelegatedTask, error) {
	var out []*entity.DelegatedTask
	for _, t := range r.items {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) ListByAuditor(auditorID string) ([]*entity.DelegatedTask, error) {
	var out []*entity.DelegatedTask
	for _, t := range r.items {
		if t.AuditorID == auditorID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePriceRepo struct {
	items []*entity.PriceRecord
}

func (r *fakePriceRepo) Create(rec *entity.PriceRecord) error {
	r.items = append(r.items, rec)
	return nil
}

func (r *fakePriceRepo) ListAll() ([]*entity.PriceRecord, error) { return r.items, nil }

func (r *fakePriceRepo) ListByCompany(companyID string) ([]*entity.PriceRecord, error) {
	var out []*entity.PriceRecord
	for _, rec := range r.items {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakePriceRepo) ListByUser(userID string, limit int) ([]*entity.PriceRecord, error) {
	var out []*entity.PriceRecord
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	items map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.items[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.items[id], nil
}
func (r *fakeProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	for _, p := range r.items {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { r.items[p.ID] = p; return nil }
func (r *fakeProductRepo) ListByCompany(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) ListAll() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.items {
		out = append(out, p)
	}
	return out, nil
}
func (r *fakeProductRepo) Delete(id string) error { delete(r.items, id); return nil }

type fakeMarketRepo struct {
	items map[string]*entity.Market
}

func (r *fakeMarketRepo) Create(m *entity.Market) error             { r.items[m.ID] = m; return nil }
func (r *fakeMarketRepo) GetByID(id string) (*entity.Market, error) { return r.items[id], nil }
func (r *fakeMarketRepo) Update(m *entity.Market) error             { r.items[m.ID] = m; return nil }
func (r *fakeMarketRepo) List(int, int) ([]*entity.Market, error)   { return r.ListAll() }
func (r *fakeMarketRepo) ListAll() ([]*entity.Market, error) {
	var out []*entity.Market
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}
func (r *fakeMarketRepo) Delete(id string) error { delete(r.items, id); return nil }

type fakeUserRepo struct {
	items map[string]*entity.User
}

func (r *fakeUserRepo) Create(u *entity.User) error             { r.items[u.ID] = u; return nil }
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) { return r.items[id], nil }
func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) Update(u *entity.User) error { r.items[u.ID] = u; return nil }
func (r *fakeUserRepo) ListByCompany(string, int, int) ([]*entity.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) Delete(id string) error { delete(r.items, id); return nil }

// fakeTx ejecuta el fn directamente contra los repos en memoria. failWith
// simula un fallo transaccional: nada se escribe.
type fakeTx struct {
	tasks    *fakeTaskRepo
	prices   *fakePriceRepo
	failWith error
	calls    int
}

func (tx *fakeTx) RunTaskCompletion(_ context.Context, fn func(repository.DelegatedTaskRepository, repository.PriceRecordRepository) error) error {
	tx.calls++
	if tx.failWith != nil {
		return tx.failWith
	}
	return fn(tx.tasks, tx.prices)
}

type fakeBus struct {
	published []*entity.PriceRecord
}

func (b *fakeBus) PublishPrice(_ string, rec *entity.PriceRecord) {
	b.published = append(b.published, rec)
}

// ─────────────────────────────────────────────
// Armado
// ─────────────────────────────────────────────

type taskFixture struct {
	uc     *TaskUseCase
	tasks  *fakeTaskRepo
	prices *fakePriceRepo
	users  *fakeUserRepo
	tx     *fakeTx
	bus    *fakeBus
	now    time.Time
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	tasks := newFakeTaskRepo()
	prices := &fakePriceRepo{}
	products := &fakeProductRepo{items: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", Name: "Arroz 5kg", CompanyID: "co-1"},
	}}
	markets := &fakeMarketRepo{items: map[string]*entity.Market{
		"mkt-1": {ID: "mkt-1", Name: "Atacadão Centro", City: "São Paulo", State: "SP"},
	}}
	users := &fakeUserRepo{items: map[string]*entity.User{
		"adm-1": {ID: "adm-1", Role: entity.RoleAdmin, CompanyID: "co-1"},
		"aud-1": {ID: "aud-1", Role: entity.RoleAuditor, CompanyID: "co-1"},
		"aud-2": {ID: "aud-2", Role: entity.RoleAuditor, CompanyID: "co-1"},
		"ali-1": {ID: "ali-1", Role: entity.RoleAlimentador, CompanyID: "co-1"},
	}}
	tx := &fakeTx{tasks: tasks, prices: prices}
	bus := &fakeBus{}
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uc := NewTaskUseCase(tasks, products, markets, users, tx, bus).
		WithClock(func() time.Time { return now })
	return &taskFixture{uc: uc, tasks: tasks, prices: prices, users: users, tx: tx, bus: bus, now: now}
}

func (f *taskFixture) seedTask(id, auditorID string, deadline time.Time) *entity.DelegatedTask {
	t := &entity.DelegatedTask{
		ID:        id,
		ProductID: "prod-1",
		MarketID:  "mkt-1",
		AuditorID: auditorID,
		Deadline:  deadline,
		Status:    entity.TaskPendente,
		CompanyID: "co-1",
		CreatedAt: f.now.Add(-24 * time.Hour),
		UpdatedAt: f.now.Add(-24 * time.Hour),
	}
	f.tasks.items[id] = t
	return t
}

// ─────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────

func TestTaskCreate_HeredaCiudadDelMercado(t *testing.T) {
	f := newTaskFixture(t)

	resp, err := f.uc.Create("co-1", dto.CreateTaskRequest{
		ProductID: "prod-1",
		MarketID:  "mkt-1",
		AuditorID: "aud-1",
		Deadline:  f.now.Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskPendente, resp.Status)
	assert.Equal(t, "São Paulo", resp.City, "sin ciudad explícita hereda la del mercado")
	assert.Equal(t, "SP", resp.State)
}

func TestTaskCreate_AsignadoDebeSerAuditor(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.uc.Create("co-1", dto.CreateTaskRequest{
		ProductID: "prod-1",
		MarketID:  "mkt-1",
		AuditorID: "ali-1", // alimentador, no auditor
		Deadline:  f.now.Add(72 * time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskCreate_ProductoInexistente(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.uc.Create("co-1", dto.CreateTaskRequest{
		ProductID: "no-existe",
		MarketID:  "mkt-1",
		AuditorID: "aud-1",
		Deadline:  f.now.Add(time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────
// Listados por estado efectivo
// ─────────────────────────────────────────────

func TestTaskList_VencidaApareceEnExpiradas(t *testing.T) {
	f := newTaskFixture(t)
	f.seedTask("t-viva", "aud-1", f.now.Add(48*time.Hour))
	f.seedTask("t-vencida", "aud-1", f.now.Add(-time.Hour)) // fila aún dice pendente

	list, err := f.uc.ListByAuditor("aud-1")
	require.NoError(t, err)

	require.Len(t, list.Pendentes, 1)
	assert.Equal(t, "t-viva", list.Pendentes[0].ID)
	require.Len(t, list.Expiradas, 1)
	assert.Equal(t, "t-vencida", list.Expiradas[0].ID)
	assert.Equal(t, entity.TaskExpirado, list.Expiradas[0].Status,
		"el estado expuesto es el efectivo aunque la fila diga pendente")
	// la fila persistida no se toca en lectura
	assert.Equal(t, entity.TaskPendente, f.tasks.items["t-vencida"].Status)
}

// ─────────────────────────────────────────────
// Complete
// ─────────────────────────────────────────────

func TestTaskComplete_GeneraPrecioAtomico(t *testing.T) {
	f := newTaskFixture(t)
	f.seedTask("t-1", "aud-1", f.now.Add(24*time.Hour))

	price := decimal.NewFromFloat(4.89)
	resp, err := f.uc.Complete("aud-1", "t-1", dto.CompleteTaskRequest{
		Price: &price,
		Notes: "promoção",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskRealizado, resp.Status)
	require.NotNil(t, resp.CollectedPrice)
	assert.True(t, resp.CollectedPrice.Equal(price))
	require.NotNil(t, resp.CompletionDate)
	assert.Equal(t, f.now, *resp.CompletionDate)

	// el precio observado queda registrado con origen auditor
	require.Len(t, f.prices.items, 1)
	rec := f.prices.items[0]
	assert.Equal(t, "prod-1", rec.ProductID)
	assert.Equal(t, "mkt-1", rec.MarketID)
	assert.Equal(t, entity.OriginAuditor, rec.Origin)
	assert.True(t, rec.Price.Equal(price))
	assert.Equal(t, "co-1", rec.CompanyID)

	// y se publica a los suscriptores
	require.Len(t, f.bus.published, 1)
	assert.Equal(t, rec.ID, f.bus.published[0].ID)
}

func TestTaskComplete_SoloAuditorAsignado(t *testing.T) {
	f := newTaskFixture(t)
	f.seedTask("t-1", "aud-1", f.now.Add(24*time.Hour))

	price := decimal.NewFromFloat(10)
	_, err := f.uc.Complete("aud-2", "t-1", dto.CompleteTaskRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.prices.items)
}

func TestTaskComplete_PrecioObligatorio(t *testing.T) {
	f := newTaskFixture(t)
	f.seedTask("t-1", "aud-1", f.now.Add(24*time.Hour))

	_, err := f.uc.Complete("aud-1", "t-1", dto.CompleteTaskRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zero := decimal.Zero
	_, err = f.uc.Complete("aud-1", "t-1", dto.CompleteTaskRequest{Price: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.prices.items)
}

func TestTaskComplete_VencidaRechaza(t *testing.T) {
	f := newTaskFixture(t)
	f.seedTask("t-1", "aud-1", f.now.Add(-time.Minute))

	price := decimal.NewFromFloat(5)
	_, err := f.uc.Complete("aud-1", "t-1", dto.CompleteTaskRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrTaskExpired)
	assert.Empty(t, f.prices.items)
	assert.Equal(t, 0, f.tx.calls, "una tarea vencida no llega a la transacción")
}

func TestTaskComplete_YaRealizadaNoDuplicaPrecio(t *testing.T) {
	f := newTaskFixture(t)
	f.seedTask("t-1", "aud-1", f.now.Add(24*time.Hour))

	price := decimal.NewFromFloat(7.50)
	_, err := f.uc.Complete("aud-1", "t-1", dto.CompleteTaskRequest{Price: &price})
	require.NoError(t, err)

	_, err = f.uc.Complete("aud-1", "t-1", dto.CompleteTaskRequest{Price: &price})
	assert.ErrorIs(t, err, domain.ErrTaskClosed)
	assert.Len(t, f.prices.items, 1, "el segundo intento no inserta otro precio")
}

func TestTaskComplete_FalloTransaccionalNoPublica(t *testing.T) {
	f := newTaskFixture(t)
	f.seedTask("t-1", "aud-1", f.now.Add(24*time.Hour))
	f.tx.failWith = errors.New("deadlock detected")

	price := decimal.NewFromFloat(3)
	_, err := f.uc.Complete("aud-1", "t-1", dto.CompleteTaskRequest{Price: &price})
	require.Error(t, err)
	assert.Empty(t, f.bus.published)
	assert.Empty(t, f.prices.items)
}
