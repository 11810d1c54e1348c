package services

import (
	"fmt"
	"slices"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/domain/model/order"
)

// Audience is everyone who may hear about an order besides its buyer.
type Audience struct {
	Managers []kernel.UserID
	// PavilionSellers maps pavilion number to the seller working it.
	PavilionSellers map[string]kernel.UserID
}

// Notice is one message and the users who receive it.
type Notice struct {
	Recipients []kernel.UserID
	Title      string
	Text       string
}

// NotificationRouter decides who hears about a status change. It has no side effects.
//
// Routing by target status:
//
//	confirmed          buyer, managers
//	customer_approval  buyer
//	payment_pending    buyer
//	paid               pavilion sellers, managers
//	ready              managers
//	delivering         buyer
//	cancelled          buyer, pavilion sellers
//
// Any other target, and any replay, produces nothing. A user is addressed at most once
// per transition.
type NotificationRouter struct{}

func NewNotificationRouter() NotificationRouter {
	return NotificationRouter{}
}

func (NotificationRouter) Route(o *order.Order, from, to order.Status, audience Audience) []Notice {
	if o == nil || from == to {
		return nil
	}

	buyer := []kernel.UserID{o.CustomerID()}
	ref := shortRef(o)

	var notices []Notice
	switch to {
	case order.Confirmed:
		buyerText := fmt.Sprintf("The seller confirmed order %s. A manager will price delivery shortly.", ref)
		if o.CustomerApproved() {
			buyerText = fmt.Sprintf("You approved the changes to order %s. A manager will price delivery shortly.", ref)
		}
		notices = []Notice{
			{Recipients: buyer, Title: "Order confirmed", Text: buyerText},
			{
				Recipients: audience.Managers,
				Title:      "Order ready for pricing",
				Text:       fmt.Sprintf("Order %s from pavilion %s waits for a delivery price.", ref, o.PavilionNumber()),
			},
		}
	case order.CustomerApproval:
		text := fmt.Sprintf("The seller changed order %s and needs your approval.", ref)
		if m, ok := o.Modification(); ok {
			text = fmt.Sprintf("The seller changed order %s: total %s instead of %s. Reason: %s.",
				ref, m.NewTotal.StringFixed(2), m.OriginalTotal.StringFixed(2), m.Reason)
		}
		notices = []Notice{{Recipients: buyer, Title: "Review order changes", Text: text}}
	case order.PaymentPending:
		price, _ := o.DeliveryPrice()
		notices = []Notice{{
			Recipients: buyer,
			Title:      "Payment required",
			Text: fmt.Sprintf("Delivery for order %s costs %s. Amount due: %s.",
				ref, price.StringFixed(2), o.SettlementTotal().StringFixed(2)),
		}}
	case order.Paid:
		notices = []Notice{
			{
				Recipients: sellers(o, audience),
				Title:      "Payment received",
				Text:       fmt.Sprintf("Order %s is paid. Start collecting it.", ref),
			},
			{
				Recipients: audience.Managers,
				Title:      "Payment received",
				Text:       fmt.Sprintf("Order %s is paid.", ref),
			},
		}
	case order.Ready:
		notices = []Notice{{
			Recipients: audience.Managers,
			Title:      "Ready for dispatch",
			Text:       fmt.Sprintf("Pavilion %s has order %s ready for dispatch.", o.PavilionNumber(), ref),
		}}
	case order.Delivering:
		notices = []Notice{{
			Recipients: buyer,
			Title:      "Order on its way",
			Text:       fmt.Sprintf("Order %s was handed over for delivery to %s.", ref, o.DeliveryAddress()),
		}}
	case order.Cancelled:
		notices = []Notice{
			{Recipients: buyer, Title: "Order cancelled", Text: fmt.Sprintf("Order %s was cancelled.", ref)},
			{Recipients: sellers(o, audience), Title: "Order cancelled", Text: fmt.Sprintf("Order %s was cancelled.", ref)},
		}
	default:
		return nil
	}

	return dedupe(notices)
}

// sellers returns the order's own pavilion seller first, then the sellers of other
// pavilions in pavilion order.
func sellers(o *order.Order, audience Audience) []kernel.UserID {
	var ids []kernel.UserID
	if id, ok := audience.PavilionSellers[o.PavilionNumber()]; ok {
		ids = append(ids, id)
	}

	pavilions := make([]string, 0, len(audience.PavilionSellers))
	for pavilion := range audience.PavilionSellers {
		if pavilion != o.PavilionNumber() {
			pavilions = append(pavilions, pavilion)
		}
	}
	slices.Sort(pavilions)
	for _, pavilion := range pavilions {
		ids = append(ids, audience.PavilionSellers[pavilion])
	}
	return ids
}

func dedupe(notices []Notice) []Notice {
	seen := map[kernel.UserID]struct{}{}
	result := make([]Notice, 0, len(notices))
	for _, notice := range notices {
		var recipients []kernel.UserID
		for _, id := range notice.Recipients {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			recipients = append(recipients, id)
		}
		if len(recipients) == 0 {
			continue
		}
		notice.Recipients = recipients
		result = append(result, notice)
	}
	return result
}

func shortRef(o *order.Order) string {
	id := o.ID().String()
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}
