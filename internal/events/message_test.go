package events

import (
	"testing"

	"github.com/RhisavRay/Wallet-Wizard/internal/core"
)

func TestNewChangeStampsOccurredAt(t *testing.T) {
	c := NewChange(core.ResourceTransactions, OpCreate, "t1")
	if c.OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be stamped")
	}
	if c.Resource != core.ResourceTransactions || c.Op != OpCreate || c.ID != "t1" {
		t.Fatalf("unexpected change: %+v", c)
	}
}

func TestChangeJSONRoundTrip(t *testing.T) {
	in := NewChange(core.ResourceBudgets, OpDelete, "b9")
	body, err := in.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := ChangeFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Resource != in.Resource || out.Op != in.Op || out.ID != in.ID {
		t.Fatalf("unexpected change after round trip: %+v", out)
	}
	if !out.OccurredAt.Equal(in.OccurredAt) {
		t.Fatalf("occurred_at should survive: %v vs %v", out.OccurredAt, in.OccurredAt)
	}
}
