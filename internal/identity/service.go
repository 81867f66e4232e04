package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/postify/postify/internal/employees"
	"github.com/postify/postify/internal/policy"
	"github.com/postify/postify/internal/shared"
)

// EmployeeDirectory looks up employee records by email across stores.
type EmployeeDirectory interface {
	FindByEmail(ctx context.Context, email string) ([]employees.Employee, error)
}

// StoreNamer resolves the display name for a store, used when an
// ambiguous sign-in must present store choices.
type StoreNamer interface {
	StoreName(ctx context.Context, storeID string) (string, error)
}

// Provisioner seeds store state when a new owner registers.
type Provisioner func(ctx context.Context, storeID, storeName string) error

// Service resolves sign-ins into policy identities.
type Service struct {
	logger    *slog.Logger
	owners    Repository
	directory EmployeeDirectory
	names     StoreNamer
	provision Provisioner
}

func NewService(logger *slog.Logger, owners Repository, directory EmployeeDirectory, names StoreNamer, provision Provisioner) *Service {
	return &Service{logger: logger, owners: owners, directory: directory, names: names, provision: provision}
}

// Register creates an owner account with a fresh store.
func (s *Service) Register(ctx context.Context, email, password, name, storeName string) (policy.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return policy.Identity{}, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if len(password) < 8 {
		return policy.Identity{}, fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return policy.Identity{}, fmt.Errorf("identity: hash password: %w", err)
	}

	owner, err := s.owners.Create(ctx, Owner{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	})
	if err != nil {
		return policy.Identity{}, err
	}

	if s.provision != nil {
		if err := s.provision(ctx, owner.StoreID(), strings.TrimSpace(storeName)); err != nil {
			s.logger.Warn("provision store settings", slog.Any("error", err))
		}
	}

	s.logger.Info("owner registered", slog.String("store_id", owner.StoreID()))
	return policy.Owner(owner.StoreID(), owner.Email), nil
}

// SignIn resolves an email into an identity. Owner accounts must
// present a valid password; employee emails are trusted as asserted by
// the upstream provider. An email employed by several stores returns
// ErrStoreSelectionRequired together with the store choices.
func (s *Service) SignIn(ctx context.Context, email, password string) (policy.Identity, []StoreOption, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return policy.Identity{}, nil, shared.ErrUnauthorized
	}

	owner, err := s.owners.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)) != nil {
			return policy.Identity{}, nil, shared.ErrInvalidCredentials
		}
		return policy.Owner(owner.StoreID(), owner.Email), nil, nil
	case errors.Is(err, shared.ErrNotFound):
		// fall through to employee resolution
	default:
		return policy.Identity{}, nil, err
	}

	matches, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return policy.Identity{}, nil, err
	}
	active := matches[:0]
	for _, e := range matches {
		if e.Active {
			active = append(active, e)
		}
	}

	switch len(active) {
	case 0:
		return policy.Identity{}, nil, shared.ErrUnauthorized
	case 1:
		e := active[0]
		return policy.Employee(e.StoreID, e.Profile()), nil, nil
	default:
		options := make([]StoreOption, 0, len(active))
		for _, e := range active {
			opt := StoreOption{StoreID: e.StoreID}
			if s.names != nil {
				if name, err := s.names.StoreName(ctx, e.StoreID); err == nil {
					opt.StoreName = name
				}
			}
			options = append(options, opt)
		}
		return policy.Identity{}, options, ErrStoreSelectionRequired
	}
}

// SelectStore completes an ambiguous sign-in by binding the email to
// one of its stores.
func (s *Service) SelectStore(ctx context.Context, email, storeID string) (policy.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	matches, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return policy.Identity{}, err
	}
	for _, e := range matches {
		if e.Active && e.StoreID == storeID {
			return policy.Employee(e.StoreID, e.Profile()), nil
		}
	}
	return policy.Identity{}, shared.ErrUnauthorized
}
