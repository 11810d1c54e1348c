package kernel

import (
	"errors"
	"fmt"
	"strings"

	"market/internal/pkg/errs"
)

// UserID identifies a person in any role. Ids are issued by the identity provider and
// are opaque to this service.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// Validate rejects blank ids.
func (u UserID) Validate() error {
	if strings.TrimSpace(string(u)) == "" {
		return errs.NewValueIsRequiredError("user id")
	}
	return nil
}

// Role is the column of the transition table an actor is authorized against.
type Role int

const (
	UnknownRole Role = iota
	Buyer
	Seller
	Manager
	Courier
	Admin
)

var roleNames = map[Role]string{
	UnknownRole: "unknown",
	Buyer:       "buyer",
	Seller:      "seller",
	Manager:     "manager",
	Courier:     "courier",
	Admin:       "admin",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return roleNames[UnknownRole]
}

// Validate accepts every role except UnknownRole.
func (r Role) Validate() error {
	if _, ok := roleNames[r]; !ok || r == UnknownRole {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// ParseRole maps a role name to a Role. "customer" is accepted as an alias of buyer,
// which is what client applications send.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "customer" {
		return Buyer, nil
	}
	for role, roleName := range roleNames {
		if role != UnknownRole && roleName == name {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Actor is the identity attached to every state-changing request.
type Actor struct {
	id   UserID
	role Role
}

// NewActor validates both parts of the identity.
func NewActor(id UserID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

// MustNewActor panics on invalid input. Meant for tests and fixed system actors.
func MustNewActor(id UserID, role Role) Actor {
	actor, err := NewActor(id, role)
	if err != nil {
		panic(err)
	}
	return actor
}

func (a Actor) ID() UserID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

// Validate reports whether the actor was built by NewActor.
func (a Actor) Validate() error {
	return errors.Join(a.id.Validate(), a.role.Validate())
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.role, a.id)
}
