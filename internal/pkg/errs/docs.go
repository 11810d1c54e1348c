// Package errs provides standardized error types for the market application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Validation errors:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value is outside its bounds
//   - ObjectNotFoundError: For when an object cannot be found
//
// Order lifecycle errors:
//   - InvalidTransitionError: the action is not allowed from the order's status for the actor's role
//   - AmountMismatchError: a payment does not equal its settlement unit total
//   - UnresolvableProductError: a line item's product is missing from the catalog (never fatal)
//   - PersistenceConflictError: a concurrent writer changed the order first
//   - NotificationDeliveryFailedError: the notification transport failed (logged only)
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Messages of the lifecycle errors are phrased around the rejected action and can be
// shown to the actor unchanged.
package errs
