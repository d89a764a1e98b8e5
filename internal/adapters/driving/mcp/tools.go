package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
)

// StartSyncInput is the input schema for the start_sync tool.
type StartSyncInput struct {
	Resource string `json:"resource,omitempty" jsonschema:"limit the sync to one chain head: products, customers, carts or members"`
	Force    bool   `json:"force,omitempty" jsonschema:"ignore the resync window and jobs still queued"`
}

// StartSyncOutput is the output schema for the start_sync tool.
type StartSyncOutput struct {
	Queued     []QueuedJob `json:"queued"`
	InProgress bool        `json:"in_progress"`
	Message    string      `json:"message"`
}

// QueuedJob is one job enqueued by start_sync.
type QueuedJob struct {
	ID       string `json:"id"`
	RunID    string `json:"run_id"`
	Resource string `json:"resource"`
	Page     int    `json:"page"`
}

// StatusInput is the input schema for the sync_status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the sync_status tool.
type StatusOutput struct {
	StoreID   string           `json:"store_id"`
	Resources []ResourceStatus `json:"resources"`
	Queue     QueueStatus      `json:"queue"`
}

// ResourceStatus is the recorded progress of one resource.
type ResourceStatus struct {
	Resource    string `json:"resource"`
	RunID       string `json:"run_id"`
	PagesDone   int    `json:"pages_done"`
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// QueueStatus is the job queue depth.
type QueueStatus struct {
	Pending int `json:"pending"`
	Running int `json:"running"`
	Done    int `json:"done"`
	Buried  int `json:"buried"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "start_sync",
		Description: "Register the store and queue a full sync of the catalog to the marketing API",
	}, s.handleStartSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_status",
		Description: "Report per-resource sync progress and job queue depth",
	}, s.handleStatus)
}

func (s *Server) handleStartSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StartSyncInput,
) (*mcp.CallToolResult, StartSyncOutput, error) {
	opts := driving.SyncOptions{Force: input.Force}
	if input.Resource != "" {
		resource, err := domain.ParseResourceType(input.Resource)
		if err != nil {
			return nil, StartSyncOutput{}, err
		}
		opts.Resource = resource
	}

	jobs, err := s.ports.Sync.StartFullSync(ctx, opts)
	s.log.Info("start_sync",
		zap.String("resource", opts.Resource.String()),
		zap.Bool("force", opts.Force),
		zap.Int("jobs", len(jobs)),
		zap.Error(err),
	)
	if errors.Is(err, domain.ErrSyncInProgress) {
		return nil, StartSyncOutput{
			Queued:     []QueuedJob{},
			InProgress: true,
			Message:    "a sync is already queued; call again with force to restart it",
		}, nil
	}
	if err != nil {
		return nil, StartSyncOutput{}, err
	}

	output := StartSyncOutput{Queued: make([]QueuedJob, len(jobs))}
	for i, job := range jobs {
		output.Queued[i] = QueuedJob{
			ID:       job.ID,
			RunID:    job.RunID,
			Resource: job.Resource.String(),
			Page:     job.Page,
		}
	}
	if len(jobs) == 0 {
		output.Message = "nothing to sync: every resource completed within the resync window"
	} else {
		output.Message = "jobs queued; a worker processes them"
	}
	return nil, output, nil
}

func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.ports.Sync.Status(ctx)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, statusOutput(status), nil
}

func statusOutput(status *driving.SyncStatus) StatusOutput {
	out := StatusOutput{
		StoreID:   status.StoreID,
		Resources: make([]ResourceStatus, len(status.Resources)),
		Queue: QueueStatus{
			Pending: status.Queue.Pending,
			Running: status.Queue.Running,
			Done:    status.Queue.Done,
			Buried:  status.Queue.Buried,
		},
	}
	for i, r := range status.Resources {
		rs := ResourceStatus{
			Resource:  r.Resource.String(),
			RunID:     r.RunID,
			PagesDone: r.PagesDone,
			Succeeded: r.Succeeded,
			Failed:    r.Failed,
			Completed: r.IsComplete(r.RunID),
		}
		if !r.CompletedAt.IsZero() {
			rs.CompletedAt = r.CompletedAt.UTC().Format(time.RFC3339)
		}
		out.Resources[i] = rs
	}
	return out
}
