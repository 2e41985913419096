package app

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/specialistvlad/vectorgrid/internal/builder"
	"github.com/specialistvlad/vectorgrid/internal/compiler"
	"github.com/specialistvlad/vectorgrid/internal/ctxlog"
	"github.com/specialistvlad/vectorgrid/internal/execctx"
	"github.com/specialistvlad/vectorgrid/internal/node"
	"github.com/specialistvlad/vectorgrid/internal/online"
	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/schema"
	"github.com/specialistvlad/vectorgrid/internal/vector"
)

// maxRecordLine bounds a single JSON record.
const maxRecordLine = 16 << 20

// compiledIndex is one index ready for evaluation.
type compiledIndex struct {
	name   string
	nodeID string
}

// compiledSchema evaluates every selected index of one schema in a single
// call, so records are parsed once and shared definitions run once.
type compiledSchema struct {
	schema  *schema.Schema
	dag     *online.SchemaDag
	indexes []compiledIndex
}

// output is one line written for every evaluated record.
type output struct {
	Index  string    `json:"index"`
	ID     string    `json:"id"`
	Vector []float64 `json:"vector"`
}

// Run executes one application run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.MetricsPort > 0 {
		a.startServer(ctx, a.config.MetricsPort)
		defer a.closeServer(ctx)
	}

	model, err := a.loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph definition: %w", err)
	}
	graph, err := builder.Build(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	selected, err := a.selectIndexes(graph)
	if err != nil {
		return err
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.logger.Error("Failed to close result store.", "error", err)
		}
	}()

	schemas, err := a.compile(ctx, selected, store)
	if err != nil {
		return err
	}

	in, closeIn, err := a.openRecords()
	if err != nil {
		return err
	}
	defer closeIn()

	n, err := a.evaluate(ctx, schemas, in)
	if err != nil {
		return err
	}
	a.logger.Info("Evaluation finished.", "records", n, "indexes", len(selected))
	return nil
}

func (a *App) selectIndexes(g *builder.Graph) ([]*builder.Index, error) {
	if len(a.config.Indexes) == 0 {
		if len(g.Indexes) == 0 {
			return nil, fmt.Errorf("graph definition declares no index")
		}
		return g.Indexes, nil
	}
	out := make([]*builder.Index, 0, len(a.config.Indexes))
	for _, name := range a.config.Indexes {
		idx, ok := g.Index(name)
		if !ok {
			return nil, fmt.Errorf("unknown index %q", name)
		}
		out = append(out, idx)
	}
	return out, nil
}

// compile lowers every selected index with one compiler, so definitions
// shared between indexes are compiled once. Indexes are grouped by schema in
// order of first appearance.
func (a *App) compile(ctx context.Context, selected []*builder.Index, store resultstore.Manager) ([]*compiledSchema, error) {
	var defs []node.Node
	for _, idx := range selected {
		defs = append(defs, idx.Dag.Nodes()...)
	}
	c := compiler.New(defs, compiler.WithRegistry(a.registry), compiler.WithMetrics(a.metrics))

	var (
		order []string
		nodes = make(map[string][]online.Node)
		seen  = make(map[string]bool)
		byKey = make(map[string]*compiledSchema)
	)
	for _, idx := range selected {
		d, err := c.CompileSchemaDag(ctx, idx.Dag, store)
		if err != nil {
			return nil, fmt.Errorf("failed to compile index '%s': %w", idx.Name, err)
		}
		name := d.Schema().Name()
		cs, ok := byKey[name]
		if !ok {
			cs = &compiledSchema{schema: d.Schema()}
			byKey[name] = cs
			order = append(order, name)
		}
		cs.indexes = append(cs.indexes, compiledIndex{name: idx.Name, nodeID: idx.Node.ID()})
		for _, n := range d.Nodes() {
			id := n.Definition().ID()
			if !seen[id] {
				seen[id] = true
				nodes[name] = append(nodes[name], n)
			}
		}
	}

	out := make([]*compiledSchema, 0, len(order))
	for _, name := range order {
		cs := byKey[name]
		cs.dag = online.NewSchemaDag(cs.schema, nodes[name])
		out = append(out, cs)
	}
	return out, nil
}

func (a *App) openRecords() (io.Reader, func(), error) {
	if a.config.RecordsPath == "" || a.config.RecordsPath == "-" {
		return a.inR, func() {}, nil
	}
	f, err := os.Open(a.config.RecordsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open records: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// evaluate reads JSON-lines records from r in batches and writes one output
// line per record and index. It returns the number of records read.
func (a *App) evaluate(ctx context.Context, schemas []*compiledSchema, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLine)
	enc := json.NewEncoder(a.outW)

	var (
		batch []map[string]any
		total int
		line  int
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		ec := execctx.New()
		for _, cs := range schemas {
			if err := a.evaluateBatch(ctx, cs, batch, ec, enc); err != nil {
				return err
			}
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return total, fmt.Errorf("records line %d: %w", line, err)
		}
		batch = append(batch, raw)
		if len(batch) >= a.config.BatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("failed to read records: %w", err)
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func (a *App) evaluateBatch(ctx context.Context, cs *compiledSchema, batch []map[string]any, ec execctx.Context, enc *json.Encoder) error {
	s := cs.schema
	records := make([]schema.ParsedSchema, len(batch))
	for i, raw := range batch {
		rec, err := s.Parse(raw)
		if err != nil {
			return fmt.Errorf("schema '%s': %w", s.Name(), err)
		}
		records[i] = rec
	}

	names := make([]string, len(cs.indexes))
	for i, idx := range cs.indexes {
		names[i] = idx.name
	}
	start := time.Now()
	results, err := cs.dag.Evaluate(ctx, records, ec)
	a.metrics.ObserveEvaluation(names, len(records), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("schema '%s': evaluation failed: %w", s.Name(), err)
	}

	for _, idx := range cs.indexes {
		for i, r := range results[idx.nodeID] {
			out := output{Index: idx.name, ID: records[i].ID()}
			if v, ok := r.Main.Value.(vector.Vector); ok {
				out.Vector = v.Values()
			}
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}
		}
	}
	return nil
}
