package grpc

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/service/manager"
	"github.com/pixix4/customer-manager/internal/store"
)

type fakeCommandService struct {
	employeeByIDFn     func(ctx context.Context, id int64) (*domain.Employee, error)
	storeEmployeeFn    func(ctx context.Context, edit domain.EmployeeEdit) (int64, error)
	deleteCustomerFn   func(ctx context.Context, id int64) error
	appointmentListFn  func(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	storeAppointmentFn func(ctx context.Context, edit domain.AppointmentEdit) (int64, error)
	storePreferenceFn  func(ctx context.Context, edit domain.PreferenceEdit) error
}

func (f *fakeCommandService) EmployeeList(ctx context.Context) ([]domain.Employee, error) {
	panic("not used")
}

func (f *fakeCommandService) EmployeeByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if f.employeeByIDFn == nil {
		panic("EmployeeByID not configured")
	}
	return f.employeeByIDFn(ctx, id)
}

func (f *fakeCommandService) StoreEmployee(ctx context.Context, edit domain.EmployeeEdit) (int64, error) {
	if f.storeEmployeeFn == nil {
		panic("StoreEmployee not configured")
	}
	return f.storeEmployeeFn(ctx, edit)
}

func (f *fakeCommandService) DeleteEmployee(ctx context.Context, id int64) error {
	panic("not used")
}

func (f *fakeCommandService) CustomerList(ctx context.Context) ([]domain.Customer, error) {
	panic("not used")
}

func (f *fakeCommandService) CustomerByID(ctx context.Context, id int64) (*domain.Customer, error) {
	panic("not used")
}

func (f *fakeCommandService) StoreCustomer(ctx context.Context, edit domain.CustomerEdit) (int64, error) {
	panic("not used")
}

func (f *fakeCommandService) DeleteCustomer(ctx context.Context, id int64) error {
	if f.deleteCustomerFn == nil {
		panic("DeleteCustomer not configured")
	}
	return f.deleteCustomerFn(ctx, id)
}

func (f *fakeCommandService) AppointmentList(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	if f.appointmentListFn == nil {
		panic("AppointmentList not configured")
	}
	return f.appointmentListFn(ctx, customerID)
}

func (f *fakeCommandService) AppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	panic("not used")
}

func (f *fakeCommandService) StoreAppointment(ctx context.Context, edit domain.AppointmentEdit) (int64, error) {
	if f.storeAppointmentFn == nil {
		panic("StoreAppointment not configured")
	}
	return f.storeAppointmentFn(ctx, edit)
}

func (f *fakeCommandService) DeleteAppointment(ctx context.Context, id int64) error {
	panic("not used")
}

func (f *fakeCommandService) PreferenceList(ctx context.Context) ([]domain.Preference, error) {
	panic("not used")
}

func (f *fakeCommandService) StorePreference(ctx context.Context, edit domain.PreferenceEdit) error {
	if f.storePreferenceFn == nil {
		panic("StorePreference not configured")
	}
	return f.storePreferenceFn(ctx, edit)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct error: %v", err)
	}
	return s
}

func TestDispatch_UnknownCommand(t *testing.T) {
	srv := NewCommandServer(&fakeCommandService{}, slog.Default())

	_, err := srv.Dispatch(context.Background(), "Nope", nil)
	if status.Code(err) != codes.Unimplemented {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.Unimplemented)
	}
}

func TestDispatch_MissingArgument(t *testing.T) {
	srv := NewCommandServer(&fakeCommandService{}, slog.Default())

	for _, method := range []string{MethodGetEmployeeByID, MethodStoreEmployee, MethodGetAppointmentList, MethodStorePreference} {
		_, err := srv.Dispatch(context.Background(), method, mustStruct(t, map[string]any{}))
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("%s: code = %s, want %s", method, status.Code(err), codes.InvalidArgument)
		}
	}
}

func TestDispatch_GetEmployeeByIDMissingIsNull(t *testing.T) {
	srv := NewCommandServer(&fakeCommandService{
		employeeByIDFn: func(ctx context.Context, id int64) (*domain.Employee, error) {
			if id != 3 {
				t.Fatalf("id = %d, want 3", id)
			}
			return nil, nil
		},
	}, slog.Default())

	out, err := srv.Dispatch(context.Background(), MethodGetEmployeeByID, mustStruct(t, map[string]any{"id": 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out.GetKind().(*structpb.Value_NullValue); !ok {
		t.Fatalf("result = %v, want null", out)
	}
}

func TestDispatch_StoreEmployeeReturnsID(t *testing.T) {
	srv := NewCommandServer(&fakeCommandService{
		storeEmployeeFn: func(ctx context.Context, edit domain.EmployeeEdit) (int64, error) {
			if edit.ID != nil || edit.Name != "Anna" {
				t.Fatalf("edit = %+v", edit)
			}
			return 12, nil
		},
	}, slog.Default())

	out, err := srv.Dispatch(context.Background(), MethodStoreEmployee, mustStruct(t, map[string]any{
		"employee": map[string]any{"id": nil, "name": "Anna"},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.GetNumberValue() != 12 {
		t.Fatalf("result = %v, want 12", out)
	}
}

func TestDispatch_StoreAppointmentParsesLocalDateTime(t *testing.T) {
	var got domain.AppointmentEdit
	srv := NewCommandServer(&fakeCommandService{
		storeAppointmentFn: func(ctx context.Context, edit domain.AppointmentEdit) (int64, error) {
			got = edit
			return 1, nil
		},
	}, slog.Default())

	_, err := srv.Dispatch(context.Background(), MethodStoreAppointment, mustStruct(t, map[string]any{
		"appointment": map[string]any{
			"customer_id":      4,
			"start_date":       "2024-01-10T09:30:00",
			"duration_minutes": 45,
			"treatment":        "cut",
			"price":            3500,
			"employee_id":      nil,
		},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	if !got.StartDate.Equal(want) || got.CustomerID != 4 || got.DurationMinutes != 45 || got.Price != 3500 || got.EmployeeID != nil {
		t.Fatalf("edit = %+v", got)
	}
}

func TestDispatch_StoreAppointmentRejectsBadDate(t *testing.T) {
	srv := NewCommandServer(&fakeCommandService{}, slog.Default())

	_, err := srv.Dispatch(context.Background(), MethodStoreAppointment, mustStruct(t, map[string]any{
		"appointment": map[string]any{"customer_id": 1, "start_date": "10.01.2024"},
	}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", status.Code(err), codes.InvalidArgument)
	}
}

func TestDispatch_StorePreferenceNullValueDeletes(t *testing.T) {
	var got domain.PreferenceEdit
	srv := NewCommandServer(&fakeCommandService{
		storePreferenceFn: func(ctx context.Context, edit domain.PreferenceEdit) error {
			got = edit
			return nil
		},
	}, slog.Default())

	out, err := srv.Dispatch(context.Background(), MethodStorePreference, mustStruct(t, map[string]any{
		"preference": map[string]any{"key": "theme", "value": nil},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "theme" || got.Value != nil {
		t.Fatalf("edit = %+v, want theme with no value", got)
	}
	if _, ok := out.GetKind().(*structpb.Value_NullValue); !ok {
		t.Fatalf("result = %v, want null", out)
	}
}

func TestDispatch_MapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "validation", err: validationErr(), code: codes.InvalidArgument},
		{name: "store", err: store.NewServiceError(store.CategorySqliteConstraint, errors.New("FOREIGN KEY constraint failed")), code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewCommandServer(&fakeCommandService{
				deleteCustomerFn: func(ctx context.Context, id int64) error { return tt.err },
			}, slog.Default())

			_, err := srv.Dispatch(context.Background(), MethodDeleteCustomer, mustStruct(t, map[string]any{"id": 1}))
			if status.Code(err) != tt.code {
				t.Fatalf("code = %s, want %s", status.Code(err), tt.code)
			}
			if status.Convert(err).Message() != tt.err.Error() {
				t.Fatalf("message = %q, want %q", status.Convert(err).Message(), tt.err.Error())
			}
		})
	}
}

func TestDispatch_AppointmentListEncodesDerivedFields(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	period := int64(9)
	srv := NewCommandServer(&fakeCommandService{
		appointmentListFn: func(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
			return []domain.Appointment{{
				ID:              2,
				CustomerID:      customerID,
				Number:          2,
				StartDate:       start,
				DurationMinutes: 30,
				EndDate:         start.Add(30 * time.Minute),
				PeriodDays:      &period,
			}}, nil
		},
	}, slog.Default())

	out, err := srv.Dispatch(context.Background(), MethodGetAppointmentList, mustStruct(t, map[string]any{"customer_id": 7}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := out.GetListValue().GetValues()
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	fields := list[0].GetStructValue().GetFields()
	if fields["period_days"].GetNumberValue() != 9 {
		t.Fatalf("period_days = %v, want 9", fields["period_days"])
	}
	if fields["end_date"].GetStringValue() != "2024-01-10T09:30:00Z" {
		t.Fatalf("end_date = %v", fields["end_date"])
	}
	if fields["customer_id"].GetNumberValue() != 7 {
		t.Fatalf("customer_id = %v, want 7", fields["customer_id"])
	}
	if _, ok := fields["employee"].GetKind().(*structpb.Value_NullValue); !ok {
		t.Fatalf("employee = %v, want null", fields["employee"])
	}
}

func validationErr() error {
	svc := manager.NewService(manager.Repositories{})
	_, err := svc.StoreEmployee(context.Background(), domain.EmployeeEdit{})
	return err
}
