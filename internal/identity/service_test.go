package identity

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/postify/postify/internal/employees"
	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

type fakeOwners struct {
	byEmail map[string]Owner
}

func newFakeOwners() *fakeOwners {
	return &fakeOwners{byEmail: make(map[string]Owner)}
}

func (f *fakeOwners) FindByEmail(_ context.Context, email string) (Owner, error) {
	if o, ok := f.byEmail[strings.ToLower(email)]; ok {
		return o, nil
	}
	return Owner{}, shared.ErrNotFound
}

func (f *fakeOwners) Create(_ context.Context, owner Owner) (Owner, error) {
	key := strings.ToLower(owner.Email)
	if _, ok := f.byEmail[key]; ok {
		return Owner{}, httpx.ErrDuplicate
	}
	f.byEmail[key] = owner
	return owner, nil
}

type fakeDirectory struct {
	records []employees.Employee
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) ([]employees.Employee, error) {
	var out []employees.Employee
	for _, e := range f.records {
		if strings.EqualFold(e.Email, email) {
			out = append(out, e)
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func employee(storeID string, active bool) employees.Employee {
	return employees.Employee{
		ID:                "emp-" + storeID,
		StoreID:           storeID,
		Name:              "Ana",
		Email:             "ana@example.com",
		Active:            active,
		CommissionPercent: 15,
		Permissions:       policy.PermissionSet{ViewSales: true},
	}
}

func TestRegisterCreatesOwnerAndProvisionsStore(t *testing.T) {
	owners := newFakeOwners()
	var provisionedStore, provisionedName string
	provision := func(_ context.Context, storeID, storeName string) error {
		provisionedStore = storeID
		provisionedName = storeName
		return nil
	}
	svc := NewService(testLogger(), owners, &fakeDirectory{}, nil, provision)

	id, err := svc.Register(context.Background(), "Owner@Example.com", "secret-pass", "Sam", "Mi Tienda")
	require.NoError(t, err)
	require.True(t, id.IsOwner())
	require.Equal(t, "owner@example.com", id.Email)
	require.Equal(t, id.StoreID, provisionedStore)
	require.Equal(t, "Mi Tienda", provisionedName)

	stored := owners.byEmail["owner@example.com"]
	require.NotEqual(t, "secret-pass", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-pass")))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(testLogger(), newFakeOwners(), &fakeDirectory{}, nil, nil)

	_, err := svc.Register(context.Background(), "o@example.com", "short", "Sam", "")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	svc := NewService(testLogger(), newFakeOwners(), &fakeDirectory{}, nil, nil)

	_, err := svc.Register(context.Background(), "o@example.com", "secret-pass", "Sam", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "O@EXAMPLE.COM", "secret-pass", "Sam", "")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestSignInOwnerChecksPassword(t *testing.T) {
	owners := newFakeOwners()
	svc := NewService(testLogger(), owners, &fakeDirectory{}, nil, nil)

	_, err := svc.Register(context.Background(), "o@example.com", "secret-pass", "Sam", "")
	require.NoError(t, err)

	id, _, err := svc.SignIn(context.Background(), "o@example.com", "secret-pass")
	require.NoError(t, err)
	require.True(t, id.IsOwner())

	_, _, err = svc.SignIn(context.Background(), "o@example.com", "wrong-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	svc := NewService(testLogger(), newFakeOwners(), &fakeDirectory{}, nil, nil)

	_, _, err := svc.SignIn(context.Background(), "nobody@example.com", "")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestSignInSingleEmployeeMatch(t *testing.T) {
	directory := &fakeDirectory{records: []employees.Employee{employee("store-1", true)}}
	svc := NewService(testLogger(), newFakeOwners(), directory, nil, nil)

	id, _, err := svc.SignIn(context.Background(), "ANA@example.com", "")
	require.NoError(t, err)
	require.Equal(t, policy.RoleEmployee, id.Role)
	require.Equal(t, "store-1", id.StoreID)
	require.NotNil(t, id.Employee)
	require.Equal(t, 15.0, id.Employee.CommissionPercent)
}

func TestSignInIgnoresInactiveEmployees(t *testing.T) {
	directory := &fakeDirectory{records: []employees.Employee{employee("store-1", false)}}
	svc := NewService(testLogger(), newFakeOwners(), directory, nil, nil)

	_, _, err := svc.SignIn(context.Background(), "ana@example.com", "")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestSignInAmbiguousRequiresStoreSelection(t *testing.T) {
	directory := &fakeDirectory{records: []employees.Employee{
		employee("store-1", true),
		employee("store-2", true),
	}}
	svc := NewService(testLogger(), newFakeOwners(), directory, nil, nil)

	_, options, err := svc.SignIn(context.Background(), "ana@example.com", "")
	require.ErrorIs(t, err, ErrStoreSelectionRequired)
	require.Len(t, options, 2)

	id, err := svc.SelectStore(context.Background(), "ana@example.com", "store-2")
	require.NoError(t, err)
	require.Equal(t, "store-2", id.StoreID)

	_, err = svc.SelectStore(context.Background(), "ana@example.com", "store-9")
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
