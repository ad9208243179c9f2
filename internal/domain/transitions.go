package domain

// TransitionTable declares, per status, the permitted UI actions and the
// successor statuses. The same table gates status updates and feeds the
// derived available-actions list, so the two can't drift apart.
type TransitionTable struct {
	Actions map[Status][]string
	Next    map[Status][]Status
}

// ActionsFor returns the permitted action ids for a status. Unknown statuses
// get no actions.
func (t TransitionTable) ActionsFor(s Status) []string {
	acts, ok := t.Actions[s]
	if !ok {
		return nil
	}
	out := make([]string, len(acts))
	copy(out, acts)
	return out
}

// CanTransition reports whether from -> to is a declared successor edge.
func (t TransitionTable) CanTransition(from, to Status) bool {
	for _, n := range t.Next[from] {
		if n == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has an explicitly empty successor set.
func (t TransitionTable) IsTerminal(s Status) bool {
	next, ok := t.Next[s]
	return ok && len(next) == 0
}

// Known reports whether a status appears in the table at all.
func (t TransitionTable) Known(s Status) bool {
	_, ok := t.Next[s]
	return ok
}

// Order statuses.
const (
	OrderPending    Status = "pending"
	OrderConfirmed  Status = "confirmed"
	OrderProcessing Status = "processing"
	OrderShipped    Status = "shipped"
	OrderDelivered  Status = "delivered"
	OrderCancelled  Status = "cancelled"
)

// OrderTransitions gates order actions. Terminal statuses offer no edit.
var OrderTransitions = TransitionTable{
	Actions: map[Status][]string{
		OrderPending:    {"confirm", "cancel", "edit"},
		OrderConfirmed:  {"start_packing", "cancel", "edit"},
		OrderProcessing: {"mark_shipped", "cancel"},
		OrderShipped:    {"mark_delivered"},
		OrderDelivered:  {},
		OrderCancelled:  {},
	},
	Next: map[Status][]Status{
		OrderPending:    {OrderConfirmed, OrderCancelled},
		OrderConfirmed:  {OrderProcessing, OrderCancelled},
		OrderProcessing: {OrderShipped, OrderCancelled},
		OrderShipped:    {OrderDelivered},
		OrderDelivered:  {},
		OrderCancelled:  {},
	},
}

// Packing task statuses.
const (
	PackingPending    Status = "pending"
	PackingInProgress Status = "in_progress"
	PackingPacked     Status = "packed"
	PackingDispatched Status = "dispatched"
	PackingCancelled  Status = "cancelled"
)

var PackingTransitions = TransitionTable{
	Actions: map[Status][]string{
		PackingPending:    {"start", "assign_worker", "edit", "cancel"},
		PackingInProgress: {"mark_packed", "reassign_worker", "cancel"},
		PackingPacked:     {"dispatch"},
		PackingDispatched: {},
		PackingCancelled:  {},
	},
	Next: map[Status][]Status{
		PackingPending:    {PackingInProgress, PackingCancelled},
		PackingInProgress: {PackingPacked, PackingCancelled},
		PackingPacked:     {PackingDispatched},
		PackingDispatched: {},
		PackingCancelled:  {},
	},
}

// Worker statuses.
const (
	WorkerActive    Status = "active"
	WorkerOnLeave   Status = "on_leave"
	WorkerSuspended Status = "suspended"
	WorkerRetired   Status = "retired"
)

var WorkerTransitions = TransitionTable{
	Actions: map[Status][]string{
		WorkerActive:    {"edit", "grant_leave", "suspend", "retire"},
		WorkerOnLeave:   {"edit", "reinstate", "retire"},
		WorkerSuspended: {"reinstate", "retire"},
		WorkerRetired:   {},
	},
	Next: map[Status][]Status{
		WorkerActive:    {WorkerOnLeave, WorkerSuspended, WorkerRetired},
		WorkerOnLeave:   {WorkerActive, WorkerRetired},
		WorkerSuspended: {WorkerActive, WorkerRetired},
		WorkerRetired:   {},
	},
}
