package domain

import "time"

// BuildInfo records the last successful run of a chain task.
// It is kept for change reporting only; tasks always run.
type BuildInfo struct {
	TaskName   string    `json:"task_name,omitzero"`
	Outputs    []string  `json:"outputs,omitempty"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
