// Package employees manages a store's staff: who can sign in, what
// they may do, and how they are compensated.
package employees

import (
	"time"

	"github.com/postify/postify/internal/policy"
)

// CompensationType describes how an employee is paid.
type CompensationType string

const (
	CompensationCommission CompensationType = "commission"
	CompensationSalary     CompensationType = "salary"
	CompensationBoth       CompensationType = "both"
)

// Valid reports whether the value is one of the known types.
func (c CompensationType) Valid() bool {
	switch c {
	case CompensationCommission, CompensationSalary, CompensationBoth:
		return true
	}
	return false
}

// Employee is a staff member of one store. Email is unique per store,
// case-insensitively, because sign-in resolves identity by email.
type Employee struct {
	ID                string
	StoreID           string
	Name              string
	Email             string
	Active            bool
	CompensationType  CompensationType
	CommissionPercent float64
	Salary            float64
	Permissions       policy.PermissionSet
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Profile converts the record into the identity layer's employee view.
func (e Employee) Profile() policy.EmployeeProfile {
	return policy.EmployeeProfile{
		ID:                e.ID,
		Name:              e.Name,
		Email:             e.Email,
		CommissionPercent: e.CommissionPercent,
		Permissions:       e.Permissions,
	}
}
