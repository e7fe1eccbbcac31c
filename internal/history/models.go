package history

import "time"

const SchemaVersion = 2

// Snapshot is one resolution run reduced to counts. RunID identifies the run
// across outputs; the store keys rows by (project_key, ts_utc, run_id).
type Snapshot struct {
	RunID         string    `json:"run_id"`
	SchemaVersion int       `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	ModuleCount   int       `json:"module_count"`
	FileCount     int       `json:"file_count"`
	EdgeCount     int       `json:"edge_count"`
	ExternalCount int       `json:"external_count"`
	CycleCount    int       `json:"cycle_count"`
	MaxFanIn      int       `json:"max_fan_in"`
	MaxFanOut     int       `json:"max_fan_out"`
}
