// Package taskgraph resolves requested font formats into artifacts by
// walking the format dependency graph.
//
// Every call to [Orchestrator.Resolve] is one run with its own memo table,
// so each format is converted at most once per run no matter how many
// formats depend on it. Formats whose dependencies are ready run
// concurrently:
//
//	svg ──▶ ttf ──┬──▶ woff
//	              ├──▶ woff2
//	              └──▶ eot
//
// A failing task settles its dependents with the same error without
// running their converters, and the first failure among the requested
// formats becomes the result of the run.
package taskgraph

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/observability"
)

// Orchestrator schedules conversions over a format registry. It holds no
// per-run state and is safe for concurrent use.
type Orchestrator struct {
	registry *format.Registry
	logger   *log.Logger
}

// New creates an orchestrator over registry.
// If registry is nil, format.Default() is used.
// If logger is nil, log output is discarded.
func New(registry *format.Registry, logger *log.Logger) *Orchestrator {
	if registry == nil {
		registry = format.Default()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Orchestrator{registry: registry, logger: logger}
}

// Registry returns the registry the orchestrator schedules over.
func (o *Orchestrator) Registry() *format.Registry { return o.registry }

// Resolve converts every requested format, plus everything they depend on,
// and returns the artifacts of all formats it converted keyed by format.
// Unknown formats are rejected before any converter runs. An empty request
// returns an empty map.
//
// On failure the first error among the requested formats is returned and
// no goroutine started by the run is left behind.
func (o *Orchestrator) Resolve(ctx context.Context, requested []format.ID, opts *format.Options) (map[format.ID][]byte, error) {
	tasks, err := o.Run(ctx, requested, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[format.ID][]byte, len(tasks))
	for id, t := range tasks {
		out[id], _ = t.Wait()
	}
	return out, nil
}

// Run is Resolve returning the settled tasks instead of bare artifacts.
func (o *Orchestrator) Run(ctx context.Context, requested []format.ID, opts *format.Options) (map[format.ID]*Task, error) {
	if err := o.registry.Validate(requested); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &format.Options{}
	}

	id := uuid.NewString()
	ctx = WithRunID(ctx, id)
	r := &run{
		id:       id,
		ctx:      ctx,
		opts:     opts,
		registry: o.registry,
		logger:   o.logger.With("run", id[:8]),
		tasks:    make(map[format.ID]*Task),
	}

	names := make([]string, len(requested))
	for i, f := range requested {
		names[i] = string(f)
	}
	hooks := observability.Conversion()
	hooks.OnRunStart(ctx, id, names)
	r.logger.Debug("resolving formats", "requested", names)
	start := time.Now()

	var eg errgroup.Group
	for _, f := range requested {
		t := r.resolve(f)
		eg.Go(func() error {
			_, err := t.Wait()
			return err
		})
	}
	err := eg.Wait()

	elapsed := time.Since(start)
	hooks.OnRunComplete(ctx, id, elapsed, err)
	if err != nil {
		r.logger.Debug("run failed", "error", err, "duration", elapsed)
		return nil, err
	}
	r.logger.Debug("run complete", "tasks", len(r.tasks), "duration", elapsed)
	return r.tasks, nil
}

// run is the state of one Resolve call.
type run struct {
	id       string
	ctx      context.Context
	opts     *format.Options
	registry *format.Registry
	logger   *log.Logger

	mu    sync.Mutex
	tasks map[format.ID]*Task
}

// resolve returns the task for f, creating it and its dependency tasks on
// first use. The task is claimed in the memo table before its
// dependencies are resolved, so every format gets exactly one task.
func (r *run) resolve(f format.ID) *Task {
	r.mu.Lock()
	if t, ok := r.tasks[f]; ok {
		r.mu.Unlock()
		return t
	}
	t := newTask(f)
	r.tasks[f] = t
	r.mu.Unlock()

	desc, _ := r.registry.Lookup(f)
	deps := make([]*Task, len(desc.Dependencies))
	for i, dep := range desc.Dependencies {
		deps[i] = r.resolve(dep)
	}
	go r.execute(t, desc, deps)
	return t
}

// execute waits for every dependency, then runs the converter with the
// dependency artifacts in declared order. A failed dependency settles t
// with that dependency's error.
func (r *run) execute(t *Task, desc format.Descriptor, deps []*Task) {
	hooks := observability.Conversion()
	inputs := make([][]byte, len(deps))
	var depErr error
	for i, d := range deps {
		artifact, err := d.Wait()
		if err != nil && depErr == nil {
			depErr = err
		}
		inputs[i] = artifact
	}
	if depErr != nil {
		r.logger.Debug("skipped", "format", desc.ID, "reason", "dependency failed")
		hooks.OnTaskComplete(r.ctx, r.id, string(desc.ID), 0, 0, depErr)
		t.settle(nil, depErr, 0)
		return
	}

	t.start()
	hooks.OnTaskStart(r.ctx, r.id, string(desc.ID))
	r.logger.Debug("converting", "format", desc.ID)
	start := time.Now()
	artifact, err := r.convert(desc, inputs)
	elapsed := time.Since(start)

	if err != nil {
		err = ierrors.Wrap(ierrors.ErrCodeConversion, err, "convert %s", desc.ID)
		r.logger.Debug("conversion failed", "format", desc.ID, "error", err, "duration", elapsed)
	} else {
		r.logger.Debug("converted", "format", desc.ID, "bytes", len(artifact), "duration", elapsed)
	}
	// Hooks fire before settling so that they have all returned once
	// Resolve does.
	hooks.OnTaskComplete(r.ctx, r.id, string(desc.ID), len(artifact), elapsed, err)
	t.settle(artifact, err, elapsed)
}

// convert invokes the converter, turning a panic into an error so the
// task still settles.
func (r *run) convert(desc format.Descriptor, inputs [][]byte) (artifact []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = ierrors.New(ierrors.ErrCodeInternal, "%s converter panicked: %v", desc.ID, p)
		}
	}()
	artifact, err = desc.Convert(r.ctx, r.opts, inputs...)
	if err == nil && len(artifact) == 0 {
		err = fmt.Errorf("%s converter returned an empty artifact", desc.ID)
	}
	return artifact, err
}
