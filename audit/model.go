// audit/model.go
package audit

import (
	"time"
)

// SaveLog is one recorded save-workflow step. In offline mode the delete
// and import documents are never uploaded; they are recorded here instead,
// one entry per document, so the operator can replay them later.
type SaveLog struct {
	Timestamp time.Time `json:"timestamp"`
	Task      string    `json:"task"` // "delete" or "import"
	RuleID    string    `json:"rule_id"`
	FileName  string    `json:"file_name"`
	Payload   string    `json:"payload"`
}
