package cli

import (
	"sage/internal/audit"
)

// attachAudit registers a DuckDB event recorder when a path is given.
// The returned closer is safe to call unconditionally.
func attachAudit(rt *runtime, path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	db, err := audit.Open(path)
	if err != nil {
		return nil, err
	}
	if err := audit.EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	recorder := audit.NewRecorder(db, rt.logger)
	rt.bus.Register(recorder)
	rt.logger.Debug("audit recording enabled", "path", path, "run_id", recorder.RunID())
	return func() { db.Close() }, nil
}
