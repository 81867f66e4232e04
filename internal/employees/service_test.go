package employees

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

type fakeRepo struct {
	items map[string]Employee
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Employee)}
}

func (f *fakeRepo) List(_ context.Context, storeID string) ([]Employee, error) {
	var out []Employee
	for _, e := range f.items {
		if e.StoreID == storeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, storeID, id string) (Employee, error) {
	e, ok := f.items[id]
	if !ok || e.StoreID != storeID {
		return Employee{}, shared.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) ([]Employee, error) {
	var out []Employee
	for _, e := range f.items {
		if strings.EqualFold(e.Email, email) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, employee Employee) (Employee, error) {
	for _, e := range f.items {
		if e.StoreID == employee.StoreID && strings.EqualFold(e.Email, employee.Email) {
			return Employee{}, httpx.ErrDuplicate
		}
	}
	f.items[employee.ID] = employee
	return employee, nil
}

func (f *fakeRepo) Update(_ context.Context, employee Employee) error {
	e, ok := f.items[employee.ID]
	if !ok || e.StoreID != employee.StoreID {
		return shared.ErrNotFound
	}
	f.items[employee.ID] = employee
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, storeID, id string) error {
	e, ok := f.items[id]
	if !ok || e.StoreID != storeID {
		return shared.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func validEmployee() Employee {
	return Employee{
		StoreID: "store-1",
		Name:    "Ana",
		Email:   "Ana@Example.com",
		Permissions: policy.PermissionSet{
			ViewSales: true,
		},
	}
}

func TestCreateNormalizesEmailAndDefaults(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), validEmployee())
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", created.Email)
	require.Equal(t, CompensationCommission, created.CompensationType)
	require.Equal(t, float64(DefaultCommissionPercent), created.CommissionPercent)
	require.True(t, created.Active)
	require.NotEmpty(t, created.ID)
}

func TestCreateSalariedKeepsZeroCommission(t *testing.T) {
	svc := NewService(newFakeRepo())

	e := validEmployee()
	e.CompensationType = CompensationSalary
	e.Salary = 1200

	created, err := svc.Create(context.Background(), e)
	require.NoError(t, err)
	require.Equal(t, 0.0, created.CommissionPercent)
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc := NewService(newFakeRepo())

	cases := map[string]func(*Employee){
		"missing name":       func(e *Employee) { e.Name = " " },
		"bad email":          func(e *Employee) { e.Email = "not-an-email" },
		"bad compensation":   func(e *Employee) { e.CompensationType = "equity" },
		"commission too big": func(e *Employee) { e.CommissionPercent = 101 },
		"negative salary":    func(e *Employee) { e.Salary = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := validEmployee()
			mutate(&e)
			_, err := svc.Create(context.Background(), e)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestCreateRejectsDuplicateEmailPerStore(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), validEmployee())
	require.NoError(t, err)

	dup := validEmployee()
	dup.Email = "ANA@example.com"
	_, err = svc.Create(context.Background(), dup)
	require.ErrorIs(t, err, httpx.ErrDuplicate)

	other := validEmployee()
	other.StoreID = "store-2"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)
}

func TestFindByEmailSpansStores(t *testing.T) {
	svc := NewService(newFakeRepo())

	first := validEmployee()
	_, err := svc.Create(context.Background(), first)
	require.NoError(t, err)

	second := validEmployee()
	second.StoreID = "store-2"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	matches, err := svc.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, matches, 2)
}

func TestProfileConversion(t *testing.T) {
	svc := NewService(newFakeRepo())

	created, err := svc.Create(context.Background(), validEmployee())
	require.NoError(t, err)

	profile := created.Profile()
	require.Equal(t, created.ID, profile.ID)
	require.Equal(t, created.CommissionPercent, profile.CommissionPercent)
	require.True(t, profile.Permissions.ViewSales)
	require.False(t, profile.Permissions.Settings)
}
