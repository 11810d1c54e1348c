package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error below unwraps to exactly one of them so callers can
// classify failures with errors.Is.
var (
	ErrObjectNotFound             = errors.New("object not found")
	ErrValueIsInvalid             = errors.New("value is invalid")
	ErrValueIsOutOfRange          = errors.New("value is out of range")
	ErrValueIsRequired            = errors.New("value is required")
	ErrInvalidTransition          = errors.New("invalid transition")
	ErrAmountMismatch             = errors.New("amount mismatch")
	ErrUnresolvableProduct        = errors.New("unresolvable product")
	ErrPersistenceConflict        = errors.New("persistence conflict")
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
)

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ObjectNotFoundError is returned when an aggregate or record cannot be located.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value fails a business rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a value falls outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError is returned when an actor requests an action the order's
// current status does not allow. The message names the rejected action so it can be
// shown to the actor as is.
type InvalidTransitionError struct {
	Action string
	Role   string
	Status string
}

func NewInvalidTransitionError(action, role, status string) *InvalidTransitionError {
	return &InvalidTransitionError{Action: action, Role: role, Status: status}
}

func (e *InvalidTransitionError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("cannot %s an order that is %s", e.Action, e.Status)
	}
	return fmt.Sprintf("%s cannot %s an order that is %s", e.Role, e.Action, e.Status)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// AmountMismatchError is returned when a payment does not cover its settlement unit
// exactly.
type AmountMismatchError struct {
	Unit     string
	Expected string
	Actual   string
}

func NewAmountMismatchError(unit string, expected, actual fmt.Stringer) *AmountMismatchError {
	return &AmountMismatchError{Unit: unit, Expected: expected.String(), Actual: actual.String()}
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("cannot pay %s for %s: amount due is %s", e.Actual, e.Unit, e.Expected)
}

func (e *AmountMismatchError) Unwrap() error {
	return ErrAmountMismatch
}

// UnresolvableProductError reports a line item whose product is missing from the
// catalog. It is informational: grouping degrades instead of failing.
type UnresolvableProductError struct {
	ProductID string
}

func NewUnresolvableProductError(productID string) *UnresolvableProductError {
	return &UnresolvableProductError{ProductID: productID}
}

func (e *UnresolvableProductError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnresolvableProduct, e.ProductID)
}

func (e *UnresolvableProductError) Unwrap() error {
	return ErrUnresolvableProduct
}

// PersistenceConflictError is returned when the backing store saw a concurrent write
// to the same aggregate. Callers re-fetch and decide again.
type PersistenceConflictError struct {
	Aggregate string
	ID        string
}

func NewPersistenceConflictError(aggregate, id string) *PersistenceConflictError {
	return &PersistenceConflictError{Aggregate: aggregate, ID: id}
}

func (e *PersistenceConflictError) Error() string {
	return fmt.Sprintf("%s %s was changed by someone else, reload it and try again", e.Aggregate, e.ID)
}

func (e *PersistenceConflictError) Unwrap() error {
	return ErrPersistenceConflict
}

// NotificationDeliveryFailedError wraps a transport failure. It is only ever logged.
type NotificationDeliveryFailedError struct {
	NotificationID string
	Cause          error
}

func NewNotificationDeliveryFailedError(notificationID string, cause error) *NotificationDeliveryFailedError {
	return &NotificationDeliveryFailedError{NotificationID: notificationID, Cause: cause}
}

func (e *NotificationDeliveryFailedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrNotificationDeliveryFailed, e.NotificationID), e.Cause)
}

func (e *NotificationDeliveryFailedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNotificationDeliveryFailed}
	}
	return []error{ErrNotificationDeliveryFailed, e.Cause}
}
