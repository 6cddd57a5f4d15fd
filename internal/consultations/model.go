package consultations

import (
	"encoding/json"
	"time"

	"council-backend/internal/council"
)

// Consultation is the audit record of one completed council round. The core
// itself keeps no cross-request memory; this record lives entirely in the
// adapter layer.
type Consultation struct {
	ID             string                         `json:"id"`
	UserInput      string                         `json:"userInput"`
	Signals        map[string]council.SignalValue `json:"signals"`
	SnapshotHash   string                         `json:"snapshotHash"`
	Classification council.Classification         `json:"classification"`
	Vetoed         bool                           `json:"vetoed"`
	WeightedScore  float64                        `json:"weightedScore"`
	Response       json.RawMessage                `json:"response"`
	CreatedAt      time.Time                      `json:"createdAt"`
}
