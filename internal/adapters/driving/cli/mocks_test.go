package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	values      map[string]string
}

func newMockSettings() *mockSettingsService {
	s := domain.DefaultAppSettings()
	s.Store.SiteURL = "https://shop.example.com"
	s.Store.ID = "store-1"
	s.API.Token = "abcdef123456-us7"
	return &mockSettingsService{settings: s, values: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetCredential(token string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.settings.API.Token = token
	return nil
}

func (m *mockSettingsService) SetValue(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) Keys() []string { return []string{"api.token", "store.id"} }

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	jobs     []domain.SyncJob
	err      error
	lastOpts driving.SyncOptions
	status   driving.SyncStatus
}

func (m *mockSyncOrchestrator) StartFullSync(_ context.Context, opts driving.SyncOptions) ([]domain.SyncJob, error) {
	m.lastOpts = opts
	return m.jobs, m.err
}

func (m *mockSyncOrchestrator) Status(_ context.Context) (*driving.SyncStatus, error) {
	s := m.status
	return &s, nil
}

// mockWorker implements driving.Worker for testing.
type mockWorker struct {
	drained int
	drains  atomic.Int32
	runs    atomic.Int32
}

func (m *mockWorker) Run(ctx context.Context) error {
	m.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockWorker) Drain(context.Context) (int, error) {
	m.drains.Add(1)
	return m.drained, nil
}

type mockQueue struct {
	stats   domain.QueueStats
	reasons map[string]string
	purged  time.Time
}

func (m *mockQueue) Stats(context.Context) (domain.QueueStats, error) { return m.stats, nil }

func (m *mockQueue) BuriedReason(_ context.Context, jobID string) (string, error) {
	reason, ok := m.reasons[jobID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return reason, nil
}

func (m *mockQueue) Purge(_ context.Context, before time.Time) (int, error) {
	m.purged = before
	return 4, nil
}

type mockPinger bool

func (m mockPinger) Ping(context.Context) bool { return bool(m) }

// mockScheduler implements driving.Scheduler for testing.
type mockScheduler struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.stopped.Store(true)
	return nil
}

// testEnv is a runtime assembled from mocks.
type testEnv struct {
	settings  *mockSettingsService
	sync      *mockSyncOrchestrator
	worker    *mockWorker
	queue     *mockQueue
	catalog   *memory.Catalog
	scheduler *mockScheduler
	ping      mockPinger
	openErr   error
	closed    int
}

func newTestEnv() *testEnv {
	return &testEnv{
		settings:  newMockSettings(),
		sync:      &mockSyncOrchestrator{status: driving.SyncStatus{StoreID: "store-1"}},
		worker:    &mockWorker{},
		queue:     &mockQueue{},
		catalog:   memory.NewCatalog(),
		scheduler: &mockScheduler{},
		ping:      true,
	}
}

func (e *testEnv) runtime() *Runtime {
	return &Runtime{
		Settings: e.settings,
		Open: func(context.Context) (*Pipeline, error) {
			if e.openErr != nil {
				return nil, e.openErr
			}
			return &Pipeline{
				Sync:    e.sync,
				Worker:  e.worker,
				Queue:   e.queue,
				API:     e.ping,
				Catalog: e.catalog,
				NewScheduler: func(time.Duration) driving.Scheduler {
					return e.scheduler
				},
				Close: func() error {
					e.closed++
					return nil
				},
			}, nil
		},
	}
}

// run executes the root command against env and returns combined output.
func run(t *testing.T, env *testEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	return runContext(context.Background(), t, env, stdin, args...)
}

func runContext(ctx context.Context, t *testing.T, env *testEnv, stdin string, args ...string) (string, error) {
	t.Helper()

	oldApp := app
	app = env.runtime()
	resetFlags()
	t.Cleanup(func() {
		app = oldApp
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	setContext(rootCmd, ctx)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// setContext overrides the context cobra keeps on every command after a run.
func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setContext(sub, ctx)
	}
}

func resetFlags() {
	syncResource, syncForce, syncDrain = "", false, false
	workerOnce, workerSchedule = false, 0
	settingsKey, settingsValue = "", ""
	catalogResource, watchSkipExisting = "", false
	purgeOlderThan = 24 * time.Hour
	dashboardRefresh, dashboardWorker = time.Second, false
	mcpPort = 0
	opts.Concurrency = 0
}

var errBoom = errors.New("boom")
