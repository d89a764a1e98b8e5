package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/storesync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/storesync/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/storesync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

// DefaultRefresh is how often the dashboard reloads progress.
const DefaultRefresh = time.Second

// columns of the progress table: header and width.
var columns = []struct {
	title string
	width int
}{
	{"RESOURCE", 11},
	{"PAGES", 7},
	{"OK", 8},
	{"FAILED", 8},
	{"STATE", 20},
}

// App is the dashboard model following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports    *Ports
	ctx      context.Context
	styles   *styles.Styles
	keys     *keymap.KeyMap
	help     help.Model
	spinner  spinner.Model
	interval time.Duration

	status      *driving.SyncStatus
	refreshedAt time.Time
	notice      string
	err         error

	// busy is set while a sync request is in flight.
	busy bool

	width int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a dashboard refreshing every interval.
func NewApp(ports *Ports, interval time.Duration) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if interval <= 0 {
		interval = DefaultRefresh
	}

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   styles.DefaultStyles(),
		keys:     keymap.DefaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		interval: interval,
	}, nil
}

// WithContext sets the context passed to service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("storesync"),
		a.loadStatus(),
		a.tick(),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.Tick:
		return a, tea.Batch(a.loadStatus(), a.tick())

	case messages.StatusLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.err = nil
		a.status = msg.Status
		a.refreshedAt = time.Now()
		return a, nil

	case messages.SyncStarted:
		a.busy = false
		switch {
		case errors.Is(msg.Err, domain.ErrSyncInProgress):
			a.notice = "A sync is already queued. Press F to force a new one."
		case msg.Err != nil:
			a.err = msg.Err
			a.notice = ""
		case len(msg.Jobs) == 0:
			a.notice = "Nothing to sync: every resource is within the resync window."
		default:
			a.notice = fmt.Sprintf("Queued %d resource chains.", len(msg.Jobs))
		}
		return a, a.loadStatus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, a.keys.Refresh):
		return a, a.loadStatus()
	case key.Matches(msg, a.keys.Sync):
		return a, a.startSync(false)
	case key.Matches(msg, a.keys.ForceSync):
		return a, a.startSync(true)
	}
	return a, nil
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.interval, func(t time.Time) tea.Msg {
		return messages.Tick{At: t}
	})
}

func (a *App) loadStatus() tea.Cmd {
	ctx, syncOrch := a.ctx, a.ports.Sync
	return func() tea.Msg {
		status, err := syncOrch.Status(ctx)
		return messages.StatusLoaded{Status: status, Err: err}
	}
}

// startSync requests a full sync unless one is already in flight.
func (a *App) startSync(force bool) tea.Cmd {
	if a.busy {
		return nil
	}
	a.busy = true
	a.notice = ""
	ctx, syncOrch := a.ctx, a.ports.Sync
	return func() tea.Msg {
		jobs, err := syncOrch.StartFullSync(ctx, driving.SyncOptions{Force: force})
		return messages.SyncStarted{Jobs: jobs, Force: force, Err: err}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	title := "storesync"
	if a.status != nil && a.status.StoreID != "" {
		title += " · " + a.status.StoreID
	}
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Border.Render(a.renderTable()))
	b.WriteString("\n")
	b.WriteString(a.styles.StatusBar.Render(a.renderQueue()))
	b.WriteString("\n")

	switch {
	case a.busy:
		b.WriteString(a.spinner.View() + " Starting sync...\n")
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("Error: "+a.err.Error()) + "\n")
	case a.notice != "":
		b.WriteString(a.styles.Warning.Render(a.notice) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a *App) renderTable() string {
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = a.styles.Header.Width(c.width).Render(c.title)
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	if a.status == nil || len(a.status.Resources) == 0 {
		rows = append(rows, a.styles.Muted.Render("No sync has run yet."))
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	for _, r := range a.status.Resources {
		state := a.styles.Warning.Render("in progress")
		if r.IsComplete(r.RunID) {
			state = a.styles.Success.Render("done " + r.CompletedAt.Local().Format("15:04:05"))
		}
		failed := strconv.Itoa(r.Failed)
		if r.Failed > 0 {
			failed = a.styles.Error.Render(failed)
		}
		cells := []string{
			r.Resource.String(),
			strconv.Itoa(r.PagesDone),
			strconv.Itoa(r.Succeeded),
			failed,
			state,
		}
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = a.styles.Cell.Width(columns[i].width).Render(cell)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderQueue() string {
	if a.status == nil {
		return "Queue: loading..."
	}
	q := a.status.Queue
	line := fmt.Sprintf("Queue: %d pending  %d running  %d done  %d buried", q.Pending, q.Running, q.Done, q.Buried)
	if !a.refreshedAt.IsZero() {
		line += "  ·  updated " + a.refreshedAt.Format("15:04:05")
	}
	return line
}

// Status returns the last loaded progress.
func (a *App) Status() *driving.SyncStatus { return a.status }

// Err returns the last error.
func (a *App) Err() error { return a.err }

// Notice returns the last informational message.
func (a *App) Notice() string { return a.notice }

// Busy reports whether a sync request is in flight.
func (a *App) Busy() bool { return a.busy }
