// Package kernel provides the shared value objects of the market domain.
//
// The package includes:
//   - UUID: identifier for orders and outbox notifications
//   - UserID: opaque identifier of a buyer, seller, manager, courier or admin
//   - Role: the actor's role, the only thing the lifecycle authorizes against
//   - Actor: a (UserID, Role) pair that every state-changing entry point receives
//
// Identity is never authenticated here; the surrounding application does that.
package kernel
