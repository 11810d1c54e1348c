// Package services provides domain services that work across orders or need
// collaborators an aggregate must not hold, such as the product catalog.
//
// The package includes:
//   - PavilionGrouper: splits an order's items into per-pavilion settlement units
//   - PaymentLedger: records per-unit payments and detects full payment
//   - DeliveryBatcher: groups orders sharing a buyer and address, stages batch pricing
//   - NotificationRouter: decides who hears about a status change and what they read
//
// Services never persist anything. The application layer loads orders, calls a
// service, and commits each order in its own unit of work.
package services
