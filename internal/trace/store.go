// Package trace records pattern-matching runs as on-disk artifacts
// (spec.md §7): a SQLite-backed store of matching steps per run, a YAML
// snapshot format for a Namespace's declared scalar types, and an
// optional gRPC server that streams a recorded run's steps back out of
// its artifact file. None of this is on the
// matching core's hot path (spec.md §5: the core stays synchronous); a
// Recorder is simply nil-safe and a no-op when artifactDir is empty, the
// same opt-in shape the teacher's lib/grpc and lib/yaml builtins give
// host scripts (internal/evaluator/builtins_grpc.go,
// internal/evaluator/builtins_yaml.go).
package trace

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/giucamp/djup/internal/discrim"
	"github.com/giucamp/djup/internal/subst"
)

// Recorder captures one matching run's steps into a SQLite database
// under artifactDir, named by a fresh UUID so concurrent runs never
// collide (spec.md §7: "each run gets its own artifact identity").
type Recorder struct {
	runID string
	dbPath string
	db    *sql.DB
	seq   int
	err   error
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS steps (
	seq        INTEGER PRIMARY KEY,
	edge_kind  INTEGER NOT NULL,
	reached    INTEGER NOT NULL,
	pattern_id INTEGER,
	recorded_at TEXT NOT NULL
);`

// NewRecorder opens (creating if needed) artifactDir/<run-id>.sqlite and
// prepares its steps table. Any error opening the store is kept and
// surfaced lazily: OnStep and Flush become no-ops rather than panicking,
// since a tracing failure must never abort a match (spec.md §7 is
// explicitly non-normative to matching results).
func NewRecorder(artifactDir string) *Recorder {
	runID := uuid.NewString()
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return &Recorder{runID: runID, err: err}
	}
	dbPath := filepath.Join(artifactDir, runID+".sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return &Recorder{runID: runID, dbPath: dbPath, err: err}
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return &Recorder{runID: runID, dbPath: dbPath, err: err}
	}
	return &Recorder{runID: runID, dbPath: dbPath, db: db}
}

// RunID returns the UUID this recorder's artifacts are filed under.
func (r *Recorder) RunID() string { return r.runID }

// OnStep is a subst.StepEvent callback: pass it directly as
// FindMatches's onStep argument.
func (r *Recorder) OnStep(ev subst.StepEvent) {
	if r == nil || r.db == nil {
		return
	}
	r.seq++
	reached := 0
	if ev.Reached {
		reached = 1
	}
	_, execErr := r.db.Exec(
		`INSERT INTO steps (seq, edge_kind, reached, pattern_id, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		r.seq, int(ev.Kind), reached, patternIDOrNull(ev), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if execErr != nil && r.err == nil {
		r.err = execErr
	}
}

func patternIDOrNull(ev subst.StepEvent) interface{} {
	if ev.Reached {
		return ev.PatternID
	}
	return nil
}

// Flush closes the underlying database connection, making the artifact
// file safe to read by another process.
func (r *Recorder) Flush() error {
	if r == nil || r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// Err returns the first error this recorder encountered, or nil.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	return r.err
}

// StepCount is a convenience used by tests: it opens dbPath and counts
// recorded rows.
func StepCount(dbPath string) (int, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("trace: opening %s: %w", dbPath, err)
	}
	defer db.Close()
	row := db.QueryRow(`SELECT COUNT(*) FROM steps`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// edgeKindName renders an EdgeKind for a human-readable dump, used by
// the gRPC step server's Tail view.
func edgeKindName(k discrim.EdgeKind) string {
	switch k {
	case discrim.EdgeLiteral:
		return "literal"
	case discrim.EdgeNameCall:
		return "name_call"
	case discrim.EdgeTypedIdentifier:
		return "typed_identifier"
	case discrim.EdgeVariadic:
		return "variadic"
	default:
		return "unknown"
	}
}
