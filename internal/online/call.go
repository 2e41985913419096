package online

import (
	"context"
	"sync"

	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/schema"
)

// Call is one evaluation of one batch of records. It memoizes the results of
// every node evaluated through it. A Call is safe for concurrent use; it
// must not outlive the batch it was opened for.
type Call struct {
	ec      execctx.Context
	records []schema.ParsedSchema

	mu      sync.Mutex
	entries map[string]*callEntry
}

type callEntry struct {
	done    chan struct{}
	results []EvaluationResult
	err     error
}

// NewCall opens a call for records.
func NewCall(records []schema.ParsedSchema, ec execctx.Context) *Call {
	return &Call{
		ec:      ec,
		records: records,
		entries: make(map[string]*callEntry),
	}
}

// Context returns the execution context of the call.
func (c *Call) Context() execctx.Context { return c.ec }

// Records returns the batch. Callers must not modify it.
func (c *Call) Records() []schema.ParsedSchema { return c.records }

// EvaluateNext returns the results of n for the call's batch. The first
// request evaluates n and persists its results; later and concurrent
// requests get the same results.
func (c *Call) EvaluateNext(ctx context.Context, n Node) ([]EvaluationResult, error) {
	id := n.Definition().ID()

	c.mu.Lock()
	e, ok := c.entries[id]
	if ok {
		c.mu.Unlock()
		select {
		case <-e.done:
			return e.results, e.err
		default:
		}
		select {
		case <-e.done:
			return e.results, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e = &callEntry{done: make(chan struct{})}
	c.entries[id] = e
	c.mu.Unlock()

	e.results, e.err = c.evaluate(ctx, n)
	close(e.done)
	return e.results, e.err
}

func (c *Call) evaluate(ctx context.Context, n Node) ([]EvaluationResult, error) {
	results, err := n.EvaluateSelf(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(results) != len(c.records) {
		return nil, errResultCount(n, len(c.records), len(results))
	}
	if err := c.persist(ctx, n, results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Call) persist(ctx context.Context, n Node, results []EvaluationResult) error {
	store := n.ResultStore()
	if store == nil || n.Definition().Persistence() == node.PersistNone {
		return nil
	}
	for i, r := range results {
		if r.Main.Value == nil {
			continue
		}
		if err := store.Store(ctx, r.Main.NodeID, c.records[i].ID(), r.Main.Value); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate runs n over records in a fresh call.
func Evaluate(ctx context.Context, n Node, records []schema.ParsedSchema, ec execctx.Context) ([]EvaluationResult, error) {
	return NewCall(records, ec).EvaluateNext(ctx, n)
}
