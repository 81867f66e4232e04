package employees

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/postify/postify/internal/shared"
)

// DefaultCommissionPercent applies when an employee is created without
// an explicit commission rate.
const DefaultCommissionPercent = 10

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, storeID string) ([]Employee, error) {
	return s.repo.List(ctx, storeID)
}

func (s *Service) Get(ctx context.Context, storeID, id string) (Employee, error) {
	if id == "" {
		return Employee{}, fmt.Errorf("%w: employee id is required", shared.ErrValidation)
	}
	return s.repo.Get(ctx, storeID, id)
}

func (s *Service) FindByEmail(ctx context.Context, email string) ([]Employee, error) {
	return s.repo.FindByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) Create(ctx context.Context, employee Employee) (Employee, error) {
	if err := s.validate(&employee); err != nil {
		return Employee{}, err
	}
	employee.ID = uuid.NewString()
	employee.Active = true
	return s.repo.Create(ctx, employee)
}

func (s *Service) Update(ctx context.Context, employee Employee) error {
	if employee.ID == "" {
		return fmt.Errorf("%w: employee id is required", shared.ErrValidation)
	}
	if err := s.validate(&employee); err != nil {
		return err
	}
	return s.repo.Update(ctx, employee)
}

func (s *Service) Delete(ctx context.Context, storeID, id string) error {
	if id == "" {
		return fmt.Errorf("%w: employee id is required", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, storeID, id)
}

func (s *Service) validate(e *Employee) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(strings.ToLower(e.Email))

	if e.Name == "" {
		return fmt.Errorf("%w: employee name is required", shared.ErrValidation)
	}
	if _, err := mail.ParseAddress(e.Email); err != nil {
		return fmt.Errorf("%w: invalid email address", shared.ErrValidation)
	}
	if e.CompensationType == "" {
		e.CompensationType = CompensationCommission
	}
	if !e.CompensationType.Valid() {
		return fmt.Errorf("%w: unknown compensation type %q", shared.ErrValidation, e.CompensationType)
	}
	if e.CommissionPercent < 0 || e.CommissionPercent > 100 {
		return fmt.Errorf("%w: commission percent must be between 0 and 100", shared.ErrValidation)
	}
	if e.CommissionPercent == 0 && e.CompensationType != CompensationSalary {
		e.CommissionPercent = DefaultCommissionPercent
	}
	if e.Salary < 0 {
		return fmt.Errorf("%w: salary must not be negative", shared.ErrValidation)
	}
	return nil
}
