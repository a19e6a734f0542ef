package types

import "time"

// EventKind identifies a pipeline notification
type EventKind string

const (
	EventOrderArrived    EventKind = "order-arrived"
	EventOrderTaken      EventKind = "order-taken"
	EventOrderReady      EventKind = "order-ready"
	EventOrdersDelivered EventKind = "orders-delivered"
	EventProgramEnd      EventKind = "program-end"
)

// Event is a notification about a single pipeline state transition.
// Seq orders events across actors; it is stamped while the transition
// happens and is unique within a run.
type Event struct {
	Seq  uint64    `json:"seq"`
	Kind EventKind `json:"kind"`
	Time time.Time `json:"time"`

	// Orders holds one order for arrived/taken/ready and the whole batch
	// for orders-delivered (possibly empty).
	Orders []Order `json:"orders,omitempty"`

	// CookUnits and CookTime are set on order-taken only
	CookUnits int           `json:"cookUnits,omitempty"`
	CookTime  time.Duration `json:"cookTime,omitempty"`

	// Summary is set on program-end only
	Summary *Summary `json:"summary,omitempty"`
}

// Order returns the single order carried by the event, if any
func (e Event) Order() (Order, bool) {
	if len(e.Orders) != 1 || e.Kind == EventOrdersDelivered {
		return Order{}, false
	}
	return e.Orders[0], true
}

// Summary describes a finished run
type Summary struct {
	Produced    int           `json:"produced" yaml:"produced"`
	Delivered   int           `json:"delivered" yaml:"delivered"`
	LeftPending []Order       `json:"leftPending,omitempty" yaml:"leftPending,omitempty"`
	LeftReady   []Order       `json:"leftReady,omitempty" yaml:"leftReady,omitempty"`
	Elapsed     time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Undelivered returns how many produced orders never reached a customer
func (s Summary) Undelivered() int {
	return len(s.LeftPending) + len(s.LeftReady)
}
