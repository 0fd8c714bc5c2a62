// Package events carries the change feed: after a successful remote write
// the services layer publishes one Change per mutation. Consumers (budget
// alerting, export jobs) read the feed; the session itself never does.
package events

import (
	"encoding/json"
	"time"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Change identifies one committed remote write. It carries only the
// identifier; consumers fetch the row themselves if they need it.
type Change struct {
	Resource   core.Resource `json:"resource"`
	Op         Operation     `json:"op"`
	ID         string        `json:"id"`
	OccurredAt time.Time     `json:"occurred_at"`
}

func NewChange(resource core.Resource, op Operation, id string) Change {
	return Change{
		Resource:   resource,
		Op:         op,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

func (c Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

func ChangeFromJSON(data []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		return Change{}, err
	}
	return c, nil
}
