package audit

import (
	"database/sql"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"sage/internal/agent"
)

// Recorder persists thinking events to DuckDB. It implements
// agent.Observer; storage failures are logged and never surface into
// the run.
type Recorder struct {
	db     *sql.DB
	runID  string
	logger *slog.Logger

	mu  sync.Mutex
	seq int64
}

// NewRecorder builds a recorder writing under a fresh run id. A nil
// logger discards failure reports.
func NewRecorder(db *sql.DB, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Recorder{db: db, runID: uuid.NewString(), logger: logger}
}

// RunID returns the id this recorder writes events under.
func (r *Recorder) RunID() string { return r.runID }

// OnThinking implements agent.Observer.
func (r *Recorder) OnThinking(event agent.ThinkingEvent) {
	r.mu.Lock()
	seq := r.seq
	r.seq++
	r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO thinking_events (run_id, seq, kind, content, tool, call_id, emitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.runID,
		seq,
		string(event.Kind),
		event.Content,
		event.Metadata[agent.MetaTool],
		event.Metadata[agent.MetaCallID],
		event.EmittedAt,
	)
	if err != nil {
		r.logger.Error("record thinking event", "kind", event.Kind, "err", err)
	}
}
