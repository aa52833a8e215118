package domain

import (
	"errors"
	"fmt"
)

// Entity names a catalog table that can change upstream.
type Entity string

const (
	EntityCampaign Entity = "campaign"
	EntityCreative Entity = "creative"
)

// Change is the kind of authoritative mutation that was applied.
type Change string

const (
	ChangeInsert Change = "insert"
	ChangeUpdate Change = "update"
	ChangeDelete Change = "delete"
	// ChangeStatus is sent by the management surface on status transitions.
	ChangeStatus Change = "status"
)

// Mutation notifies the synchronizer that one entity changed upstream.
type Mutation struct {
	Entity Entity `json:"entity"`
	ID     int64  `json:"id"`
	Change Change `json:"change"`
}

// Validate checks the notification refers to a known entity and change.
func (m Mutation) Validate() error {
	switch m.Entity {
	case EntityCampaign, EntityCreative:
	default:
		return fmt.Errorf("unknown entity %q", m.Entity)
	}
	if m.ID <= 0 {
		return errors.New("id must be positive")
	}
	switch m.Change {
	case ChangeInsert, ChangeUpdate, ChangeDelete, ChangeStatus:
	default:
		return fmt.Errorf("unknown change %q", m.Change)
	}
	return nil
}
