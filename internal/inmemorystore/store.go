package inmemorystore

import (
	"context"
	"strings"
	"sync"

	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/tidwall/btree"
)

// entry is one stored result.
type entry struct {
	key   resultstore.Key
	value any
}

func less(a, b entry) bool {
	if c := strings.Compare(a.key.NodeID, b.key.NodeID); c != 0 {
		return c < 0
	}
	return a.key.RecordID < b.key.RecordID
}

// Store is an in-memory resultstore.Manager. The tree is guarded by one
// RWMutex.
type Store struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[entry]
}

var _ resultstore.Manager = (*Store)(nil)

// New creates a new, empty in-memory result store.
func New() *Store {
	return &Store{tree: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true})}
}

// Store saves value under (nodeID, recordID).
func (s *Store) Store(_ context.Context, nodeID, recordID string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Set(entry{key: resultstore.Key{NodeID: nodeID, RecordID: recordID}, value: value})
	return nil
}

// Load returns the value saved under (nodeID, recordID).
func (s *Store) Load(_ context.Context, nodeID, recordID string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tree.Get(entry{key: resultstore.Key{NodeID: nodeID, RecordID: recordID}})
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

// ForNode calls fn for every result of nodeID in record ID order until fn
// returns false.
func (s *Store) ForNode(nodeID string, fn func(recordID string, value any) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.tree.Ascend(entry{key: resultstore.Key{NodeID: nodeID}}, func(e entry) bool {
		if e.key.NodeID != nodeID {
			return false
		}
		return fn(e.key.RecordID, e.value)
	})
}
