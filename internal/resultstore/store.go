// Package resultstore defines the boundary between the evaluation engine and
// whatever persists per-node, per-record results.
//
// # Contract
//
// The engine calls Store only for nodes whose persistence intent is not
// node.PersistNone, and only after the node's value for the record is fully
// computed. It calls Load only from the parentless custom-node path, where a
// value computed outside the graph re-enters it.
//
// Implementations MUST be safe for concurrent use: top-level nodes of one
// evaluation call run in parallel and store their results independently.
//
// See internal/inmemorystore and internal/sqlitestore for the shipped
// implementations.
package resultstore

import "context"

// Manager saves and loads evaluation results keyed by (node ID, record ID).
type Manager interface {
	// Store saves value for the given node and record, replacing any
	// previous value.
	Store(ctx context.Context, nodeID, recordID string, value any) error

	// Load returns the value saved for the given node and record. found is
	// false when nothing was saved; that is not an error at this layer.
	Load(ctx context.Context, nodeID, recordID string) (value any, found bool, err error)
}

// Key addresses one stored result.
type Key struct {
	NodeID   string
	RecordID string
}

// String renders the key as "node/record".
func (k Key) String() string {
	return k.NodeID + "/" + k.RecordID
}
