// Package policy gates navigation and actions by role. Identities are a
// closed union: the store owner, who is unrestricted, or an employee
// carrying an explicit permission set.
package policy

// Permission enumerates the capabilities an employee can be granted.
type Permission string

const (
	PermViewSales        Permission = "viewSales"
	PermEditProducts     Permission = "editProducts"
	PermDeleteProducts   Permission = "deleteProducts"
	PermViewDashboard    Permission = "viewDashboard"
	PermManageCategories Permission = "manageCategories"
	PermManageEmployees  Permission = "manageEmployees"
	PermSettings         Permission = "settings"
)

// AllPermissions lists every known permission, in display order.
var AllPermissions = []Permission{
	PermViewSales,
	PermEditProducts,
	PermDeleteProducts,
	PermViewDashboard,
	PermManageCategories,
	PermManageEmployees,
	PermSettings,
}

// PermissionSet holds the seven independent grants of an employee.
// The zero value denies everything.
type PermissionSet struct {
	ViewSales        bool `json:"viewSales"`
	EditProducts     bool `json:"editProducts"`
	DeleteProducts   bool `json:"deleteProducts"`
	ViewDashboard    bool `json:"viewDashboard"`
	ManageCategories bool `json:"manageCategories"`
	ManageEmployees  bool `json:"manageEmployees"`
	Settings         bool `json:"settings"`
}

// Has reports whether the set grants the permission. Unknown permissions
// are denied.
func (s PermissionSet) Has(p Permission) bool {
	switch p {
	case PermViewSales:
		return s.ViewSales
	case PermEditProducts:
		return s.EditProducts
	case PermDeleteProducts:
		return s.DeleteProducts
	case PermViewDashboard:
		return s.ViewDashboard
	case PermManageCategories:
		return s.ManageCategories
	case PermManageEmployees:
		return s.ManageEmployees
	case PermSettings:
		return s.Settings
	default:
		return false
	}
}

// Role discriminates the identity union.
type Role string

const (
	// RoleOwner is the identity that registered the store.
	RoleOwner Role = "owner"
	// RoleEmployee is a named identity granted a permission subset.
	RoleEmployee Role = "employee"
)

// EmployeeProfile carries the employee fields policy checks need.
type EmployeeProfile struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Email             string        `json:"email"`
	CommissionPercent float64       `json:"commission_percent"`
	Permissions       PermissionSet `json:"permissions"`
}

// Identity is the acting principal for every request: the owner of the
// store or one of its employees.
type Identity struct {
	Role     Role             `json:"role"`
	StoreID  string           `json:"store_id"`
	Email    string           `json:"email"`
	Employee *EmployeeProfile `json:"employee,omitempty"`
}

// Owner constructs the unrestricted identity for a store.
func Owner(storeID, email string) Identity {
	return Identity{Role: RoleOwner, StoreID: storeID, Email: email}
}

// Employee constructs an employee identity bound to its store.
func Employee(storeID string, profile EmployeeProfile) Identity {
	return Identity{Role: RoleEmployee, StoreID: storeID, Email: profile.Email, Employee: &profile}
}

// IsOwner reports whether the identity is the store owner.
func (id Identity) IsOwner() bool {
	return id.Role == RoleOwner
}

// CanAccess evaluates the access rule: owners pass unconditionally,
// employees pass when the corresponding flag is granted.
func (id Identity) CanAccess(p Permission) bool {
	switch id.Role {
	case RoleOwner:
		return true
	case RoleEmployee:
		if id.Employee == nil {
			return false
		}
		return id.Employee.Permissions.Has(p)
	default:
		return false
	}
}
