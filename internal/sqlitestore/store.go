// Package sqlitestore provides a persistent resultstore.Manager backed by a
// SQLite database, so stored results survive between runs and parentless
// custom nodes can load values computed by an earlier run.
//
// Vectors are stored as packed little-endian floats, either at full float64
// precision or compressed to IEEE 754 half precision. Scalars are stored as
// JSON.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/specialistvlad/vectorgrid/internal/resultstore"
	"github.com/specialistvlad/vectorgrid/internal/vector"
	"github.com/x448/float16"

	_ "modernc.org/sqlite"
)

// Precision selects how vectors are encoded.
type Precision string

const (
	Float64 Precision = "float64"
	Float16 Precision = "float16"
)

// ParsePrecision resolves a configured precision. Empty means Float64.
func ParsePrecision(s string) (Precision, error) {
	switch Precision(s) {
	case "", Float64:
		return Float64, nil
	case Float16:
		return Float16, nil
	default:
		return "", fmt.Errorf("invalid store precision %q, use %q or %q", s, Float64, Float16)
	}
}

// payload kinds stored alongside the encoded value.
const (
	kindVector64 = "vector64"
	kindVector16 = "vector16"
	kindJSON     = "json"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
	node_id   TEXT NOT NULL,
	record_id TEXT NOT NULL,
	kind      TEXT NOT NULL,
	payload   BLOB NOT NULL,
	PRIMARY KEY (node_id, record_id)
)`

// Store is a SQLite resultstore.Manager.
type Store struct {
	db        *sql.DB
	path      string
	precision Precision
}

var _ resultstore.Manager = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrecision sets the vector encoding precision.
func WithPrecision(p Precision) Option {
	return func(s *Store) { s.precision = p }
}

// Open opens or creates the database at path and initializes its schema.
// ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open result store %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, precision: Float64}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init result store schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Store saves value under (nodeID, recordID), replacing any previous value.
func (s *Store) Store(ctx context.Context, nodeID, recordID string, value any) error {
	kind, payload, err := s.encode(value)
	if err != nil {
		return fmt.Errorf("encode result %s/%s: %w", nodeID, recordID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (node_id, record_id, kind, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT (node_id, record_id) DO UPDATE SET kind = excluded.kind, payload = excluded.payload`,
		nodeID, recordID, kind, payload)
	if err != nil {
		return fmt.Errorf("store result %s/%s: %w", nodeID, recordID, err)
	}
	return nil
}

// Load returns the value saved under (nodeID, recordID).
func (s *Store) Load(ctx context.Context, nodeID, recordID string) (any, bool, error) {
	var kind string
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, payload FROM results WHERE node_id = ? AND record_id = ?`,
		nodeID, recordID).Scan(&kind, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load result %s/%s: %w", nodeID, recordID, err)
	}
	v, err := decode(kind, payload)
	if err != nil {
		return nil, false, fmt.Errorf("decode result %s/%s: %w", nodeID, recordID, err)
	}
	return v, true, nil
}

// Count returns the number of stored results.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}

func (s *Store) encode(value any) (string, []byte, error) {
	v, ok := value.(vector.Vector)
	if !ok {
		b, err := json.Marshal(value)
		if err != nil {
			return "", nil, err
		}
		return kindJSON, b, nil
	}
	values := v.Values()
	if s.precision == Float16 {
		buf := make([]byte, 2*len(values))
		for i, f := range values {
			binary.LittleEndian.PutUint16(buf[2*i:], float16.Fromfloat32(float32(f)).Bits())
		}
		return kindVector16, buf, nil
	}
	buf := make([]byte, 8*len(values))
	for i, f := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(f))
	}
	return kindVector64, buf, nil
}

func decode(kind string, payload []byte) (any, error) {
	switch kind {
	case kindVector64:
		if len(payload)%8 != 0 {
			return nil, fmt.Errorf("corrupt float64 vector of %d bytes", len(payload))
		}
		values := make([]float64, len(payload)/8)
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
		}
		return vector.New(values...), nil
	case kindVector16:
		if len(payload)%2 != 0 {
			return nil, fmt.Errorf("corrupt float16 vector of %d bytes", len(payload))
		}
		values := make([]float64, len(payload)/2)
		for i := range values {
			values[i] = float64(float16.Frombits(binary.LittleEndian.Uint16(payload[2*i:])).Float32())
		}
		return vector.New(values...), nil
	case kindJSON:
		var v any
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q", kind)
	}
}
