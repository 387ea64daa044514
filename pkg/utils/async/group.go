package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Task is a unit of work run by a Group
type Task func(ctx context.Context) error

// Group runs independent tasks with bounded concurrency and keeps every
// task's error. Unlike errgroup, one failing task never cancels the others.
//
// Behavior:
//   - Tasks receive a background context that preserves the ctxlog logger,
//     so cancelling the parent context does not interrupt running tasks
//   - Panics are recovered, logged with the stack and reported as the task's error
//   - Wait returns all errors in submission order, nil for succeeded tasks
type Group struct {
	ctx  context.Context
	eg   errgroup.Group
	mu   sync.Mutex
	errs []error
}

// NewGroup creates a Group running at most limit tasks at once. A limit of
// zero or less means no limit.
func NewGroup(ctx context.Context, limit int) *Group {
	g := &Group{
		ctx: newBackgroundContext(ctx),
	}
	if limit > 0 {
		g.eg.SetLimit(limit)
	}
	return g
}

// Go schedules task. It blocks while the concurrency limit is reached.
func (g *Group) Go(task Task) {
	g.mu.Lock()
	idx := len(g.errs)
	g.errs = append(g.errs, nil)
	g.mu.Unlock()

	g.eg.Go(func() error {
		err := g.run(task)

		g.mu.Lock()
		g.errs[idx] = err
		g.mu.Unlock()
		return nil
	})
}

// Wait blocks until every scheduled task has finished
func (g *Group) Wait() []error {
	_ = g.eg.Wait() // tasks never return an error to errgroup

	g.mu.Lock()
	defer g.mu.Unlock()
	errs := make([]error, len(g.errs))
	copy(errs, g.errs)
	return errs
}

func (g *Group) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			ctxlog.From(g.ctx).Error("panic in async task",
				"recover", r,
				"stack", string(stack))
			err = goerr.New("panic in async task", goerr.V("recover", fmt.Sprint(r)))
		}
	}()

	return task(g.ctx)
}

// newBackgroundContext creates a new background context preserving important values
//
// Preserved values:
//   - ctxlog logger
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	return newCtx
}
