package store

import (
	"context"

	"github.com/pixix4/customer-manager/internal/domain"
)

type EmployeeRepository interface {
	List(ctx context.Context) ([]domain.Employee, error)
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	Store(ctx context.Context, edit domain.EmployeeEdit) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	Store(ctx context.Context, edit domain.CustomerEdit) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type AppointmentRepository interface {
	// ListForCustomer returns the customer's appointments, most recent first.
	ListForCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Store(ctx context.Context, edit domain.AppointmentEdit) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type PreferenceRepository interface {
	List(ctx context.Context) ([]domain.Preference, error)
	Store(ctx context.Context, edit domain.PreferenceEdit) error
}
