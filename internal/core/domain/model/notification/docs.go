// Package notification models a message addressed to one user about an order status
// change, as stored in the outbox until a transport delivers it.
//
// A notification starts pending. Each delivery attempt either marks it sent or records
// the failure; after MaxAttempts failures it is marked failed and no longer retried.
// Delivery failures never affect the order the notification is about.
package notification
