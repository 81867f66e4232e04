// Package identity resolves who is signing in: the owner of a store or
// one of its employees. Owners authenticate with a password; employee
// emails arrive already asserted by the upstream identity provider.
package identity

import (
	"errors"
	"time"
)

// ErrStoreSelectionRequired is returned when an email is employed by
// more than one store and the client must pick one before proceeding.
var ErrStoreSelectionRequired = errors.New("identity: store selection required")

// Owner is the account that registered a store. The owner's id doubles
// as the store id.
type Owner struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StoreID returns the store the owner account anchors.
func (o Owner) StoreID() string {
	return o.ID
}

// StoreOption is one store an ambiguous employee email can pick.
type StoreOption struct {
	StoreID   string `json:"store_id"`
	StoreName string `json:"store_name"`
}
