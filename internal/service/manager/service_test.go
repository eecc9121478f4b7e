package manager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/store"
)

type fakeEmployees struct {
	listFn   func(ctx context.Context) ([]domain.Employee, error)
	getFn    func(ctx context.Context, id int64) (*domain.Employee, error)
	storeFn  func(ctx context.Context, edit domain.EmployeeEdit) (int64, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (f *fakeEmployees) List(ctx context.Context) ([]domain.Employee, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx)
}

func (f *fakeEmployees) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if f.getFn == nil {
		panic("GetByID not configured")
	}
	return f.getFn(ctx, id)
}

func (f *fakeEmployees) Store(ctx context.Context, edit domain.EmployeeEdit) (int64, error) {
	if f.storeFn == nil {
		panic("Store not configured")
	}
	return f.storeFn(ctx, edit)
}

func (f *fakeEmployees) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

type fakeCustomers struct {
	storeFn func(ctx context.Context, edit domain.CustomerEdit) (int64, error)
	getFn   func(ctx context.Context, id int64) (*domain.Customer, error)
}

func (f *fakeCustomers) List(ctx context.Context) ([]domain.Customer, error) {
	panic("not used")
}

func (f *fakeCustomers) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if f.getFn == nil {
		panic("GetByID not configured")
	}
	return f.getFn(ctx, id)
}

func (f *fakeCustomers) Store(ctx context.Context, edit domain.CustomerEdit) (int64, error) {
	if f.storeFn == nil {
		panic("Store not configured")
	}
	return f.storeFn(ctx, edit)
}

func (f *fakeCustomers) Delete(ctx context.Context, id int64) error {
	panic("not used")
}

type fakeAppointments struct {
	listFn  func(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	storeFn func(ctx context.Context, edit domain.AppointmentEdit) (int64, error)
}

func (f *fakeAppointments) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	if f.listFn == nil {
		panic("ListForCustomer not configured")
	}
	return f.listFn(ctx, customerID)
}

func (f *fakeAppointments) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	panic("not used")
}

func (f *fakeAppointments) Store(ctx context.Context, edit domain.AppointmentEdit) (int64, error) {
	if f.storeFn == nil {
		panic("Store not configured")
	}
	return f.storeFn(ctx, edit)
}

func (f *fakeAppointments) Delete(ctx context.Context, id int64) error {
	panic("not used")
}

type fakePreferences struct {
	storeFn func(ctx context.Context, edit domain.PreferenceEdit) error
}

func (f *fakePreferences) List(ctx context.Context) ([]domain.Preference, error) {
	panic("not used")
}

func (f *fakePreferences) Store(ctx context.Context, edit domain.PreferenceEdit) error {
	if f.storeFn == nil {
		panic("Store not configured")
	}
	return f.storeFn(ctx, edit)
}

func TestStoreEmployee_TrimsAndValidates(t *testing.T) {
	var got domain.EmployeeEdit
	svc := NewService(Repositories{Employees: &fakeEmployees{
		storeFn: func(ctx context.Context, edit domain.EmployeeEdit) (int64, error) {
			got = edit
			return 7, nil
		},
	}})

	id, err := svc.StoreEmployee(context.Background(), domain.EmployeeEdit{Name: "  Anna  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 7 || got.Name != "Anna" {
		t.Fatalf("id = %d, stored name = %q; want 7, Anna", id, got.Name)
	}

	_, err = svc.StoreEmployee(context.Background(), domain.EmployeeEdit{Name: "   "})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if ve.Error() != "name is required" {
		t.Fatalf("message = %q, want %q", ve.Error(), "name is required")
	}
}

func TestStoreEmployee_RejectsNonPositiveID(t *testing.T) {
	svc := NewService(Repositories{Employees: &fakeEmployees{}})

	zero := int64(0)
	_, err := svc.StoreEmployee(context.Background(), domain.EmployeeEdit{ID: &zero, Name: "Anna"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
}

func TestStoreCustomer_RejectsBadEmployeeReference(t *testing.T) {
	svc := NewService(Repositories{Customers: &fakeCustomers{}})

	bad := int64(-3)
	_, err := svc.StoreCustomer(context.Background(), domain.CustomerEdit{FirstName: "Eva", ResponsibleEmployeeID: &bad})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if ve.Error() != "responsible_employee_id must be greater than 0" {
		t.Fatalf("message = %q", ve.Error())
	}
}

func TestStoreAppointment_Validation(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		edit domain.AppointmentEdit
		msg  string
	}{
		{name: "missing customer", edit: domain.AppointmentEdit{StartDate: start}, msg: "customer_id must be greater than 0"},
		{name: "missing start", edit: domain.AppointmentEdit{CustomerID: 1}, msg: "start_date is required"},
		{name: "negative duration", edit: domain.AppointmentEdit{CustomerID: 1, StartDate: start, DurationMinutes: -5}, msg: "duration_minutes must not be negative"},
		{name: "negative price", edit: domain.AppointmentEdit{CustomerID: 1, StartDate: start, Price: -1}, msg: "price must not be negative"},
	}

	svc := NewService(Repositories{Appointments: &fakeAppointments{}})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.StoreAppointment(context.Background(), tt.edit)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if ve.Error() != tt.msg {
				t.Fatalf("message = %q, want %q", ve.Error(), tt.msg)
			}
		})
	}
}

func TestStoreAppointment_NormalizesStartToUTC(t *testing.T) {
	var got time.Time
	svc := NewService(Repositories{Appointments: &fakeAppointments{
		storeFn: func(ctx context.Context, edit domain.AppointmentEdit) (int64, error) {
			got = edit.StartDate
			return 1, nil
		},
	}})

	berlin := time.FixedZone("CET", 3600)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, berlin)
	if _, err := svc.StoreAppointment(context.Background(), domain.AppointmentEdit{CustomerID: 1, StartDate: start}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location() != time.UTC || !got.Equal(start) {
		t.Fatalf("stored start = %v, want %v in UTC", got, start)
	}
}

func TestAppointmentList_PassesStoreErrorThrough(t *testing.T) {
	storeErr := store.NewServiceError(store.CategorySqliteBusy, errors.New("database is locked"))
	svc := NewService(Repositories{Appointments: &fakeAppointments{
		listFn: func(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
			if customerID != 5 {
				t.Fatalf("customerID = %d, want 5", customerID)
			}
			return nil, storeErr
		},
	}})

	_, err := svc.AppointmentList(context.Background(), 5)
	if !errors.Is(err, storeErr) {
		t.Fatalf("error = %v, want the store error", err)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Fatalf("store errors must not be reported as validation errors")
	}
}

func TestStorePreference(t *testing.T) {
	var got []domain.PreferenceEdit
	svc := NewService(Repositories{Preferences: &fakePreferences{
		storeFn: func(ctx context.Context, edit domain.PreferenceEdit) error {
			got = append(got, edit)
			return nil
		},
	}})

	value := "dark"
	if err := svc.StorePreference(context.Background(), domain.PreferenceEdit{Key: " theme ", Value: &value}); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := svc.StorePreference(context.Background(), domain.PreferenceEdit{Key: "theme"}); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if len(got) != 2 || got[0].Key != "theme" || got[1].Value != nil {
		t.Fatalf("stored edits = %+v", got)
	}

	err := svc.StorePreference(context.Background(), domain.PreferenceEdit{Key: ""})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
}

func TestEmployeeByID_MissingIsNil(t *testing.T) {
	svc := NewService(Repositories{
		Employees: &fakeEmployees{getFn: func(ctx context.Context, id int64) (*domain.Employee, error) { return nil, nil }},
		Customers: &fakeCustomers{getFn: func(ctx context.Context, id int64) (*domain.Customer, error) { return nil, nil }},
	})

	e, err := svc.EmployeeByID(context.Background(), 99)
	if err != nil || e != nil {
		t.Fatalf("EmployeeByID = %+v, %v; want nil, nil", e, err)
	}
	c, err := svc.CustomerByID(context.Background(), 99)
	if err != nil || c != nil {
		t.Fatalf("CustomerByID = %+v, %v; want nil, nil", c, err)
	}
}
