package manager

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Repositories struct {
	Employees    store.EmployeeRepository
	Customers    store.CustomerRepository
	Appointments store.AppointmentRepository
	Preferences  store.PreferenceRepository
}

// Service checks edit requests before they reach the repositories. Reads and
// deletes pass straight through.
type Service struct {
	employees    store.EmployeeRepository
	customers    store.CustomerRepository
	appointments store.AppointmentRepository
	preferences  store.PreferenceRepository
	validate     *validator.Validate
}

func NewService(repos Repositories) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	return &Service{
		employees:    repos.Employees,
		customers:    repos.Customers,
		appointments: repos.Appointments,
		preferences:  repos.Preferences,
		validate:     v,
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return validationError(fe.Field() + " is required")
	case "max":
		return validationError(fe.Field() + " too long")
	case "gt":
		return validationError(fe.Field() + " must be greater than " + fe.Param())
	case "gte":
		return validationError(fe.Field() + " must not be negative")
	default:
		return validationError(fe.Field() + " is invalid")
	}
}

func (s *Service) EmployeeList(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.List(ctx)
}

func (s *Service) EmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

func (s *Service) StoreEmployee(ctx context.Context, edit domain.EmployeeEdit) (int64, error) {
	edit.Name = strings.TrimSpace(edit.Name)
	if err := s.check(edit); err != nil {
		return 0, err
	}
	return s.employees.Store(ctx, edit)
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.employees.Delete(ctx, id)
}

func (s *Service) CustomerList(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *Service) CustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *Service) StoreCustomer(ctx context.Context, edit domain.CustomerEdit) (int64, error) {
	if err := s.check(edit); err != nil {
		return 0, err
	}
	return s.customers.Store(ctx, edit)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.customers.Delete(ctx, id)
}

func (s *Service) AppointmentList(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	return s.appointments.ListForCustomer(ctx, customerID)
}

func (s *Service) AppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) StoreAppointment(ctx context.Context, edit domain.AppointmentEdit) (int64, error) {
	if err := s.check(edit); err != nil {
		return 0, err
	}
	edit.StartDate = edit.StartDate.UTC()
	return s.appointments.Store(ctx, edit)
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) PreferenceList(ctx context.Context) ([]domain.Preference, error) {
	return s.preferences.List(ctx)
}

// StorePreference sets a preference, or removes it when the edit has no value.
func (s *Service) StorePreference(ctx context.Context, edit domain.PreferenceEdit) error {
	edit.Key = strings.TrimSpace(edit.Key)
	if err := s.check(edit); err != nil {
		return err
	}
	return s.preferences.Store(ctx, edit)
}
