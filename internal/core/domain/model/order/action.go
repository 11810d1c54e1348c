package order

import (
	"fmt"

	"market/internal/pkg/errs"
)

// Action is an intent an actor issues against an order.
type Action int

const (
	UnknownAction Action = iota
	StartEditing
	Confirm
	SubmitEdit
	Reject
	Approve
	RejectEdit
	ClaimPricing
	PriceDelivery
	Pay
	StartCollecting
	MarkReady
	Dispatch
	Deliver
	Cancel
)

type actionNames struct {
	slug string
	verb string
}

var actions = map[Action]actionNames{
	StartEditing:    {"start-editing", "start editing"},
	Confirm:         {"confirm", "confirm"},
	SubmitEdit:      {"edit", "edit"},
	Reject:          {"reject", "reject"},
	Approve:         {"approve", "approve changes to"},
	RejectEdit:      {"reject-edit", "reject changes to"},
	ClaimPricing:    {"claim-pricing", "take for pricing"},
	PriceDelivery:   {"price-delivery", "price delivery for"},
	Pay:             {"pay", "pay for"},
	StartCollecting: {"start-collecting", "start collecting"},
	MarkReady:       {"ready", "mark ready"},
	Dispatch:        {"dispatch", "dispatch"},
	Deliver:         {"deliver", "deliver"},
	Cancel:          {"cancel", "cancel"},
}

// String returns the URL slug of the action.
func (a Action) String() string {
	if n, ok := actions[a]; ok {
		return n.slug
	}
	return "unknown"
}

// Verb returns the phrase used in "cannot <verb> an order that is ..." messages.
func (a Action) Verb() string {
	if n, ok := actions[a]; ok {
		return n.verb
	}
	return "change"
}

// ParseAction maps a slug to an Action.
func ParseAction(slug string) (Action, error) {
	for a, n := range actions {
		if n.slug == slug {
			return a, nil
		}
	}
	return UnknownAction, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", slug))
}
