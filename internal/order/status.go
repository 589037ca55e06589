package order

import "fmt"

// Status is the canonical order state. Stored and served in English; the
// storefront shows the Spanish label from Label().
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusPreparing  Status = "Preparing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// statusRank orders the fulfilment pipeline. Cancelled sits outside the
// pipeline and is reachable from any non-terminal state.
var statusRank = map[Status]int{
	StatusProcessing: 0,
	StatusPreparing:  1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

var statusLabels = map[Status]string{
	StatusProcessing: "Procesando",
	StatusPreparing:  "Preparando",
	StatusShipped:    "Enviado",
	StatusDelivered:  "Entregado",
	StatusCancelled:  "Cancelado",
}

// ParseStatus maps a client-supplied value onto the canonical enum. Every
// endpoint that accepts a status goes through here; none keeps its own
// allowed-value list.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

// Label returns the Spanish display label for the status.
func (s Status) Label() string {
	return statusLabels[s]
}

// IsTerminal reports whether no further transition is allowed. Delivered and
// Cancelled are both locked; cancelling a delivered order is rejected (the
// system cannot model the refund that would imply).
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order in state from may move to state to.
// Legal moves run forward along the pipeline (skipping states is allowed) or
// sideways to Cancelled; terminal states accept nothing.
func CanTransition(from, to Status) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// StateTransitionError reports a rejected status change. The order is left
// untouched; both sides of the refused edge are carried for the client.
type StateTransitionError struct {
	From Status
	To   Status
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.From, e.To)
}
