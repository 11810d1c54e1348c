package order

import (
	"slices"

	"market/internal/core/domain/model/kernel"
	"market/internal/pkg/errs"
)

type rule struct {
	roles []kernel.Role
	from  []Status
	to    Status
}

// transitions is the single source of truth for who may do what from where.
// Every action has exactly one target status.
var transitions = map[Action]rule{
	StartEditing: {
		roles: []kernel.Role{kernel.Seller},
		from:  []Status{Pending},
		to:    SellerEditing,
	},
	Confirm: {
		roles: []kernel.Role{kernel.Seller},
		from:  []Status{Pending, SellerEditing},
		to:    Confirmed,
	},
	SubmitEdit: {
		roles: []kernel.Role{kernel.Seller},
		from:  []Status{Pending, SellerEditing},
		to:    CustomerApproval,
	},
	Reject: {
		roles: []kernel.Role{kernel.Seller},
		from:  []Status{Pending, SellerEditing},
		to:    Cancelled,
	},
	Approve: {
		roles: []kernel.Role{kernel.Buyer},
		from:  []Status{CustomerApproval},
		to:    Confirmed,
	},
	RejectEdit: {
		roles: []kernel.Role{kernel.Buyer},
		from:  []Status{CustomerApproval},
		to:    Cancelled,
	},
	ClaimPricing: {
		roles: []kernel.Role{kernel.Manager},
		from:  []Status{Confirmed},
		to:    ManagerPricing,
	},
	PriceDelivery: {
		roles: []kernel.Role{kernel.Manager},
		from:  []Status{Confirmed, ManagerPricing},
		to:    PaymentPending,
	},
	Pay: {
		roles: []kernel.Role{kernel.Buyer},
		from:  []Status{PaymentPending},
		to:    Paid,
	},
	StartCollecting: {
		roles: []kernel.Role{kernel.Seller},
		from:  []Status{Paid},
		to:    Collecting,
	},
	MarkReady: {
		roles: []kernel.Role{kernel.Seller},
		from:  []Status{Paid, Collecting},
		to:    Ready,
	},
	Dispatch: {
		roles: []kernel.Role{kernel.Manager, kernel.Courier},
		from:  []Status{Ready},
		to:    Delivering,
	},
	Deliver: {
		roles: []kernel.Role{kernel.Manager, kernel.Courier},
		from:  []Status{Delivering},
		to:    Delivered,
	},
	Cancel: {
		roles: []kernel.Role{kernel.Buyer},
		from:  []Status{Pending, SellerEditing, CustomerApproval, Confirmed, ManagerPricing, PaymentPending},
		to:    Cancelled,
	},
}

// TransitionResult describes an accepted transition. A replayed result means the order
// already was in the target status; nothing changes and nobody is notified.
type TransitionResult struct {
	Action   Action
	From     Status
	To       Status
	Replayed bool
}

// Changed reports whether the status actually moved.
func (r TransitionResult) Changed() bool {
	return !r.Replayed && r.From != r.To
}

// Transition decides whether role may perform action on an order in current status.
// It does not check preconditions that depend on order data, see Order.Apply.
func Transition(current Status, role kernel.Role, action Action) (TransitionResult, error) {
	r, ok := transitions[action]
	if !ok || !slices.Contains(r.roles, role) {
		return TransitionResult{}, invalidTransition(action, role, current)
	}

	if current == r.to {
		return TransitionResult{Action: action, From: current, To: current, Replayed: true}, nil
	}

	if !slices.Contains(r.from, current) {
		return TransitionResult{}, invalidTransition(action, role, current)
	}

	return TransitionResult{Action: action, From: current, To: r.to}, nil
}

// AllowedActions lists what role may do from status, in declaration order.
func AllowedActions(status Status, role kernel.Role) []Action {
	var allowed []Action
	for action := StartEditing; action <= Cancel; action++ {
		r := transitions[action]
		if slices.Contains(r.roles, role) && slices.Contains(r.from, status) {
			allowed = append(allowed, action)
		}
	}
	return allowed
}

// TargetOf returns the status action leads to.
func TargetOf(action Action) (Status, bool) {
	r, ok := transitions[action]
	return r.to, ok
}

func invalidTransition(action Action, role kernel.Role, status Status) error {
	return errs.NewInvalidTransitionError(action.Verb(), role.String(), status.Describe())
}
