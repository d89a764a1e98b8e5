package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/custodia-labs/storesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
)

// --- Mock implementations for service testing ---

// Ensure mockMarketingAPI implements the interface.
var _ driven.MarketingAPI = (*mockMarketingAPI)(nil)

// mockMarketingAPI records calls and serves canned remote state.
type mockMarketingAPI struct {
	mu sync.Mutex

	// remote holds entity IDs that exist remotely, keyed by resource.
	remote map[domain.ResourceType]map[string]bool

	// errs maps an entity ID to the error returned by its write call.
	errs map[string]error

	// getErrs maps an entity ID to the error returned by its lookup.
	getErrs map[string]error

	store      *domain.Store
	storeCalls []string
	calls      []string
	pingOK     bool
}

func newMockMarketingAPI() *mockMarketingAPI {
	return &mockMarketingAPI{
		remote:  make(map[domain.ResourceType]map[string]bool),
		errs:    make(map[string]error),
		getErrs: make(map[string]error),
		pingOK:  true,
	}
}

func (m *mockMarketingAPI) setRemote(resource domain.ResourceType, ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.remote[resource] == nil {
		m.remote[resource] = make(map[string]bool)
	}
	for _, id := range ids {
		m.remote[resource][id] = true
	}
}

func (m *mockMarketingAPI) failWrite(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[id] = err
}

func (m *mockMarketingAPI) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockMarketingAPI) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockMarketingAPI) exists(resource domain.ResourceType, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErrs[id]; err != nil {
		return false, err
	}
	return m.remote[resource][id], nil
}

func (m *mockMarketingAPI) writeErr(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs[id]
}

func (m *mockMarketingAPI) Ping(context.Context) bool { return m.pingOK }

func (m *mockMarketingAPI) GetStore(_ context.Context, storeID string) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCalls = append(m.storeCalls, "get:"+storeID)
	if m.store == nil || m.store.ID != storeID {
		return nil, nil
	}
	s := *m.store
	return &s, nil
}

func (m *mockMarketingAPI) AddStore(_ context.Context, store *domain.Store) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCalls = append(m.storeCalls, "add:"+store.ID)
	s := *store
	m.store = &s
	return store, nil
}

func (m *mockMarketingAPI) UpdateStore(_ context.Context, store *domain.Store) (*domain.Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeCalls = append(m.storeCalls, "update:"+store.ID)
	s := *store
	m.store = &s
	return store, nil
}

func (m *mockMarketingAPI) AddStoreProduct(_ context.Context, _ string, p *domain.Product) (*domain.Product, error) {
	m.record("add_product:" + p.ID)
	if err := m.writeErr(p.ID); err != nil {
		return nil, err
	}
	m.setRemote(domain.ResourceProducts, p.ID)
	return p, nil
}

func (m *mockMarketingAPI) DeleteStoreProduct(_ context.Context, _ string, productID string) (bool, error) {
	m.record("delete_product:" + productID)
	ok, err := m.exists(domain.ResourceProducts, productID)
	return ok, err
}

func (m *mockMarketingAPI) GetStoreOrder(_ context.Context, _ string, id string) (*domain.Order, error) {
	ok, err := m.exists(domain.ResourceOrders, id)
	if err != nil || !ok {
		return nil, err
	}
	return &domain.Order{ID: id}, nil
}

func (m *mockMarketingAPI) AddStoreOrder(_ context.Context, _ string, o *domain.Order) (*domain.Order, error) {
	m.record("add_order:" + o.ID)
	return o, m.writeErr(o.ID)
}

func (m *mockMarketingAPI) UpdateStoreOrder(_ context.Context, _ string, o *domain.Order) (*domain.Order, error) {
	m.record("update_order:" + o.ID)
	return o, m.writeErr(o.ID)
}

func (m *mockMarketingAPI) GetCustomer(_ context.Context, _ string, id string) (*domain.Customer, error) {
	ok, err := m.exists(domain.ResourceCustomers, id)
	if err != nil || !ok {
		return nil, err
	}
	return &domain.Customer{ID: id}, nil
}

func (m *mockMarketingAPI) AddCustomer(_ context.Context, _ string, c *domain.Customer) (*domain.Customer, error) {
	m.record("add_customer:" + c.ID)
	return c, m.writeErr(c.ID)
}

func (m *mockMarketingAPI) UpdateCustomer(_ context.Context, _ string, c *domain.Customer) (*domain.Customer, error) {
	m.record("update_customer:" + c.ID)
	return c, m.writeErr(c.ID)
}

func (m *mockMarketingAPI) GetCart(_ context.Context, _ string, id string) (*domain.Cart, error) {
	ok, err := m.exists(domain.ResourceCarts, id)
	if err != nil || !ok {
		return nil, err
	}
	return &domain.Cart{ID: id}, nil
}

func (m *mockMarketingAPI) AddCart(_ context.Context, _ string, c *domain.Cart) (*domain.Cart, error) {
	m.record("add_cart:" + c.ID)
	return c, m.writeErr(c.ID)
}

func (m *mockMarketingAPI) UpdateCart(_ context.Context, _ string, c *domain.Cart) (*domain.Cart, error) {
	m.record("update_cart:" + c.ID)
	return c, m.writeErr(c.ID)
}

func (m *mockMarketingAPI) UpdateOrCreate(_ context.Context, listID string, member *domain.ListMember) (*domain.ListMember, error) {
	m.record("upsert_member:" + listID + ":" + member.EmailAddress)
	return member, m.writeErr(member.EmailAddress)
}

// failingCatalog returns err for every page request.
type failingCatalog struct {
	err error
}

func (c failingCatalog) Page(context.Context, string, domain.ResourceType, int, int) (domain.Page, error) {
	return domain.Page{}, c.err
}

// pipeline wires a runner over in-memory adapters.
type pipeline struct {
	api     *mockMarketingAPI
	queue   *memory.JobQueue
	catalog *memory.Catalog
	runs    *memory.SyncRunStore
	chain   *Chain
	runner  *Runner
	logs    *observer.ObservedLogs
}

func newPipeline(t *testing.T, cfg RunnerConfig, listID string) *pipeline {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	p := &pipeline{
		api:     newMockMarketingAPI(),
		queue:   memory.NewJobQueue(),
		catalog: memory.NewCatalog(),
		runs:    memory.NewSyncRunStore(),
		logs:    logs,
	}
	p.chain = NewChain(p.queue, log)
	stages := NewStageRegistry(DefaultStages(p.api, p.chain, listID)...)
	p.runner = NewRunner(stages, p.catalog, p.queue, p.runs, cfg, log)
	return p
}

func (p *pipeline) seedProducts(t *testing.T, storeID string, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		product := &domain.Product{ID: fmt.Sprintf("p%02d", i), Title: fmt.Sprintf("Product %d", i)}
		require.NoError(t, p.catalog.Put(context.Background(), storeID, product))
	}
}

// drain dequeues and runs jobs until the queue is empty.
func (p *pipeline) drain(t *testing.T) []PageResult {
	t.Helper()
	ctx := context.Background()
	var results []PageResult
	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			require.ErrorIs(t, err, domain.ErrQueueEmpty)
			return results
		}
		result, err := p.runner.Run(ctx, *job)
		require.NoError(t, err)
		results = append(results, result)
	}
}

func pendingResources(q *memory.JobQueue) []domain.ResourceType {
	var out []domain.ResourceType
	for _, j := range q.Pending() {
		out = append(out, j.Resource)
	}
	return out
}
