// Package scheduler implements the task execution scheduler.
package scheduler

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusRecovered indicates a recoverable stage failed and the task ended without output.
	StatusRecovered TaskStatus = "Recovered"
)

// ServeFunc enters the serving state. It blocks until ctx is done.
type ServeFunc func(ctx context.Context) error

// ChainRunner executes a single chain.
type ChainRunner interface {
	Run(ctx context.Context, chain *domain.Chain, progress io.Writer) (pipeline.Result, error)
}

// Scheduler runs the leaf tasks of an entry one after another.
type Scheduler struct {
	runner  ChainRunner
	store   ports.BuildInfoStore
	hasher  ports.Hasher
	tracer  ports.Tracer
	metrics ports.Metrics
	logger  ports.Logger
	root    string

	mu         sync.RWMutex
	taskStatus map[string]TaskStatus
}

// NewScheduler creates a new Scheduler. root is the project root build info is stored under.
func NewScheduler(
	runner ChainRunner,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	tracer ports.Tracer,
	metrics ports.Metrics,
	log ports.Logger,
	root string,
) *Scheduler {
	return &Scheduler{
		runner:     runner,
		store:      store,
		hasher:     hasher,
		tracer:     tracer,
		metrics:    metrics,
		logger:     log,
		root:       root,
		taskStatus: make(map[string]TaskStatus),
	}
}

func (s *Scheduler) updateStatus(name string, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run expands entry into its leaf tasks and runs them in order, stopping at the first
// failure. A serve leaf calls serve, which is nil once the serving state has been entered.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, entry string, serve ServeFunc) error {
	leaves, err := graph.Expand(entry)
	if err != nil {
		return err
	}

	planned := make([]string, 0, len(leaves))
	s.mu.Lock()
	for _, t := range leaves {
		planned = append(planned, t.Name)
		s.taskStatus[t.Name] = StatusPending
	}
	s.mu.Unlock()

	s.tracer.EmitPlan(ctx, planned, []string{entry})

	for i := range leaves {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runLeaf(ctx, &leaves[i], serve); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", leaves[i].Name)
		}
	}
	return nil
}

func (s *Scheduler) runLeaf(ctx context.Context, t *domain.Task, serve ServeFunc) error {
	s.updateStatus(t.Name, StatusRunning)

	ctx, span := s.tracer.Start(ctx, t.Name, ports.WithAttribute("kiln.kind", t.Kind.String()))
	defer span.End()

	start := time.Now()
	var err error
	switch t.Kind {
	case domain.KindServe:
		err = s.serve(ctx, serve)
	case domain.KindChain:
		err = s.runChain(ctx, t, span)
	default:
		err = zerr.With(domain.ErrTaskNotFound, "task", t.Name)
	}

	if t.Kind == domain.KindChain {
		s.metrics.ObserveTask(t.Name, time.Since(start), err)
	}

	if err != nil {
		span.RecordError(err)
		s.updateStatus(t.Name, StatusFailed)
		return err
	}
	return nil
}

func (s *Scheduler) serve(ctx context.Context, serve ServeFunc) error {
	if serve == nil {
		return domain.ErrAlreadyServing
	}
	return serve(ctx)
}

func (s *Scheduler) runChain(ctx context.Context, t *domain.Task, span ports.Span) error {
	res, err := s.runner.Run(ctx, t.Chain, span)
	if err != nil {
		return err
	}

	if res.Recovered {
		span.SetAttribute("kiln.recovered", true)
		s.updateStatus(t.Name, StatusRecovered)
		return nil
	}

	if err := s.recordOutputs(t.Name, res.Outputs); err != nil {
		return err
	}

	s.updateStatus(t.Name, StatusCompleted)
	return nil
}

// recordOutputs stores the digest of a task's outputs and reports when it did not change.
func (s *Scheduler) recordOutputs(name string, outputs []string) error {
	if len(outputs) == 0 {
		return nil
	}

	outputs = relativeTo(s.root, outputs)
	hash, err := s.hasher.ComputeOutputHash(outputs, s.root)
	if err != nil {
		return zerr.Wrap(err, domain.ErrOutputHashComputationFailed.Error())
	}

	if prev, err := s.store.Get(s.root, name); err == nil && prev != nil && prev.OutputHash == hash {
		s.logger.Info(name + ": outputs unchanged")
	}

	info := domain.BuildInfo{
		TaskName:   name,
		Outputs:    outputs,
		OutputHash: hash,
		Timestamp:  time.Now(),
	}
	if err := s.store.Put(s.root, info); err != nil {
		return zerr.Wrap(err, domain.ErrBuildInfoUpdateFailed.Error())
	}
	return nil
}

// relativeTo rewrites absolute paths under root as root-relative ones.
// Paths outside root stay absolute.
func relativeTo(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			if rel, err := filepath.Rel(root, p); err == nil && rel != ".." &&
				!strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				p = rel
			}
		}
		out = append(out, filepath.ToSlash(p))
	}
	return out
}
