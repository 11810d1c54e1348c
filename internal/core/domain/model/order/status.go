package order

import (
	"fmt"

	"market/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	pending ──> seller_editing ──┬──> confirmed ──> manager_pricing ──> payment_pending ──> paid
//	   │                         └──> customer_approval ──> confirmed          │
//	   └──────────────────────────────────────────────────────────────────────┘
//	paid ──> collecting ──> ready ──> delivering ──> delivered
//
// Every state before paid can also move to cancelled.
type Status int

const (
	Unknown Status = iota
	Pending
	SellerEditing
	CustomerApproval
	Confirmed
	ManagerPricing
	PaymentPending
	Paid
	Collecting
	Ready
	Delivering
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:          "unknown",
	Pending:          "pending",
	SellerEditing:    "seller_editing",
	CustomerApproval: "customer_approval",
	Confirmed:        "confirmed",
	ManagerPricing:   "manager_pricing",
	PaymentPending:   "payment_pending",
	Paid:             "paid",
	Collecting:       "collecting",
	Ready:            "ready",
	Delivering:       "delivering",
	Delivered:        "delivered",
	Cancelled:        "cancelled",
}

// statusDescriptions are used in messages shown to actors.
var statusDescriptions = map[Status]string{
	Pending:          "pending",
	SellerEditing:    "being edited by the seller",
	CustomerApproval: "awaiting buyer approval",
	Confirmed:        "confirmed",
	ManagerPricing:   "being priced for delivery",
	PaymentPending:   "awaiting payment",
	Paid:             "paid",
	Collecting:       "being collected",
	Ready:            "ready for dispatch",
	Delivering:       "out for delivery",
	Delivered:        "delivered",
	Cancelled:        "cancelled",
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		Pending, SellerEditing, CustomerApproval, Confirmed, ManagerPricing, PaymentPending,
		Paid, Collecting, Ready, Delivering, Delivered, Cancelled,
	}
}

// String returns the persisted snake_case name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// Describe returns the phrase used in actor-facing messages.
func (s Status) Describe() string {
	if d, ok := statusDescriptions[s]; ok {
		return d
	}
	return "in an unknown state"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := statusDescriptions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// ParseStatus maps a persisted name back to a Status.
func ParseStatus(name string) (Status, error) {
	for _, s := range AllStatuses() {
		if statusNames[s] == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", name))
}

// IsTerminal reports whether no further transition can leave s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsBeforePaid reports whether s precedes payment. Only these states may be cancelled.
func (s Status) IsBeforePaid() bool {
	return s >= Pending && s < Paid
}
