package repositories

import (
	"errors"

	"github.com/google/uuid"
)

// ErrForbidden is returned when an entity exists but belongs to another
// account.
var ErrForbidden = errors.New("resource does not belong to the authenticated user")

// Key layout for the flat store. Every entity lives under "entity:id";
// the only secondary structures are denormalized id lists and the email
// lookup key, resolved by sequential gets.
const (
	userKeyPrefix     = "user:"
	userEmailPrefix   = "user_email:"
	userPropsPrefix   = "user_properties:"
	propertyKeyPrefix = "property:"
	bookingKeyPrefix  = "booking:"
	leaseKeyPrefix    = "lease:"
)

func userKey(id uuid.UUID) string      { return userKeyPrefix + id.String() }
func userEmailKey(email string) string { return userEmailPrefix + email }
func userPropsKey(id uuid.UUID) string { return userPropsPrefix + id.String() }
func propertyKey(id uuid.UUID) string  { return propertyKeyPrefix + id.String() }
func bookingKey(id uuid.UUID) string   { return bookingKeyPrefix + id.String() }
func leaseKey(id uuid.UUID) string     { return leaseKeyPrefix + id.String() }
