// Package order implements the Order aggregate of the wholesale market: a buyer's
// purchase from a single pavilion, tracked from placement to delivery.
//
// The package includes:
//   - Order: the aggregate root, mutated only through Apply, SubmitEdit,
//     StageDeliveryPrice and SettlePayment
//   - Status and Action: the lifecycle states and the actor intents
//   - Transition: the authoritative (action, role, status) table
//   - Item, PaymentRecord, Modification: line items, per settlement unit payments and
//     the seller edit awaiting buyer approval
//
// Key business rules:
//   - every mutation is all-or-nothing: a rejected request leaves the order untouched
//   - replaying a transition the order already went through succeeds without changes
//   - an order can be cancelled only before it is paid
//   - the order is paid exactly when every settlement unit is paid
//   - the delivery fee is its own settlement unit, never a line item total
package order
