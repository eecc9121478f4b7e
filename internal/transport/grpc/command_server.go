package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/service/manager"
)

type commandService interface {
	EmployeeList(ctx context.Context) ([]domain.Employee, error)
	EmployeeByID(ctx context.Context, id int64) (*domain.Employee, error)
	StoreEmployee(ctx context.Context, edit domain.EmployeeEdit) (int64, error)
	DeleteEmployee(ctx context.Context, id int64) error

	CustomerList(ctx context.Context) ([]domain.Customer, error)
	CustomerByID(ctx context.Context, id int64) (*domain.Customer, error)
	StoreCustomer(ctx context.Context, edit domain.CustomerEdit) (int64, error)
	DeleteCustomer(ctx context.Context, id int64) error

	AppointmentList(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	AppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error)
	StoreAppointment(ctx context.Context, edit domain.AppointmentEdit) (int64, error)
	DeleteAppointment(ctx context.Context, id int64) error

	PreferenceList(ctx context.Context) ([]domain.Preference, error)
	StorePreference(ctx context.Context, edit domain.PreferenceEdit) error
}

type command func(ctx context.Context, args *structpb.Struct) (any, error)

type CommandServer struct {
	svc      commandService
	log      *slog.Logger
	commands map[string]command
}

var _ CommandServiceServer = (*CommandServer)(nil)

func NewCommandServer(svc commandService, log *slog.Logger) *CommandServer {
	if log == nil {
		log = slog.Default()
	}
	s := &CommandServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.commands")),
	}
	s.commands = map[string]command{
		MethodGetEmployeeList:    s.getEmployeeList,
		MethodGetEmployeeByID:    s.getEmployeeByID,
		MethodStoreEmployee:      s.storeEmployee,
		MethodDeleteEmployee:     s.deleteEmployee,
		MethodGetCustomerList:    s.getCustomerList,
		MethodGetCustomerByID:    s.getCustomerByID,
		MethodStoreCustomer:      s.storeCustomer,
		MethodDeleteCustomer:     s.deleteCustomer,
		MethodGetAppointmentList: s.getAppointmentList,
		MethodGetAppointmentByID: s.getAppointmentByID,
		MethodStoreAppointment:   s.storeAppointment,
		MethodDeleteAppointment:  s.deleteAppointment,
		MethodGetPreferenceList:  s.getPreferenceList,
		MethodStorePreference:    s.storePreference,
	}
	return s
}

func (s *CommandServer) Dispatch(ctx context.Context, method string, args *structpb.Struct) (*structpb.Value, error) {
	log := s.log.With(slog.String("rpc", method), slog.String("request_id", RequestIDFromContext(ctx)))

	cmd, ok := s.commands[method]
	if !ok {
		log.Warn("unknown command")
		return nil, status.Errorf(codes.Unimplemented, "unknown command %q", method)
	}

	result, err := cmd(ctx, args)
	if err != nil {
		var vErr *manager.ValidationError
		var aErr *ArgumentError
		if errors.As(err, &vErr) || errors.As(err, &aErr) {
			log.Warn("invalid request", slog.Any("err", err))
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		log.Error("command failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, err.Error())
	}

	out, err := toValue(result)
	if err != nil {
		log.Error("encode result failed", slog.Any("err", err))
		return nil, status.Error(codes.Internal, err.Error())
	}

	log.Debug("command completed")
	return out, nil
}

type idArgs struct {
	ID *int64 `json:"id"`
}

func requireID(args *structpb.Struct) (int64, error) {
	var in idArgs
	if err := decodeArgs(args, &in); err != nil {
		return 0, err
	}
	if in.ID == nil {
		return 0, argumentError("missing argument id")
	}
	return *in.ID, nil
}

func (s *CommandServer) getEmployeeList(ctx context.Context, _ *structpb.Struct) (any, error) {
	return s.svc.EmployeeList(ctx)
}

func (s *CommandServer) getEmployeeByID(ctx context.Context, args *structpb.Struct) (any, error) {
	id, err := requireID(args)
	if err != nil {
		return nil, err
	}
	return s.svc.EmployeeByID(ctx, id)
}

func (s *CommandServer) storeEmployee(ctx context.Context, args *structpb.Struct) (any, error) {
	var in struct {
		Employee *domain.EmployeeEdit `json:"employee"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Employee == nil {
		return nil, argumentError("missing argument employee")
	}
	return s.svc.StoreEmployee(ctx, *in.Employee)
}

func (s *CommandServer) deleteEmployee(ctx context.Context, args *structpb.Struct) (any, error) {
	id, err := requireID(args)
	if err != nil {
		return nil, err
	}
	return nil, s.svc.DeleteEmployee(ctx, id)
}

func (s *CommandServer) getCustomerList(ctx context.Context, _ *structpb.Struct) (any, error) {
	return s.svc.CustomerList(ctx)
}

func (s *CommandServer) getCustomerByID(ctx context.Context, args *structpb.Struct) (any, error) {
	id, err := requireID(args)
	if err != nil {
		return nil, err
	}
	return s.svc.CustomerByID(ctx, id)
}

func (s *CommandServer) storeCustomer(ctx context.Context, args *structpb.Struct) (any, error) {
	var in struct {
		Customer *domain.CustomerEdit `json:"customer"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Customer == nil {
		return nil, argumentError("missing argument customer")
	}
	return s.svc.StoreCustomer(ctx, *in.Customer)
}

func (s *CommandServer) deleteCustomer(ctx context.Context, args *structpb.Struct) (any, error) {
	id, err := requireID(args)
	if err != nil {
		return nil, err
	}
	return nil, s.svc.DeleteCustomer(ctx, id)
}

func (s *CommandServer) getAppointmentList(ctx context.Context, args *structpb.Struct) (any, error) {
	var in struct {
		CustomerID *int64 `json:"customer_id"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == nil {
		return nil, argumentError("missing argument customer_id")
	}
	return s.svc.AppointmentList(ctx, *in.CustomerID)
}

func (s *CommandServer) getAppointmentByID(ctx context.Context, args *structpb.Struct) (any, error) {
	id, err := requireID(args)
	if err != nil {
		return nil, err
	}
	return s.svc.AppointmentByID(ctx, id)
}

// appointmentEditArgs mirrors domain.AppointmentEdit but takes the start as text so
// local date-times without a zone are accepted.
type appointmentEditArgs struct {
	ID              *int64 `json:"id"`
	CustomerID      int64  `json:"customer_id"`
	StartDate       string `json:"start_date"`
	DurationMinutes int64  `json:"duration_minutes"`
	Treatment       string `json:"treatment"`
	Price           int64  `json:"price"`
	EmployeeID      *int64 `json:"employee_id"`
}

func (s *CommandServer) storeAppointment(ctx context.Context, args *structpb.Struct) (any, error) {
	var in struct {
		Appointment *appointmentEditArgs `json:"appointment"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Appointment == nil {
		return nil, argumentError("missing argument appointment")
	}

	a := in.Appointment
	start, err := parseStartDate(a.StartDate)
	if err != nil {
		return nil, err
	}
	return s.svc.StoreAppointment(ctx, domain.AppointmentEdit{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		StartDate:       start,
		DurationMinutes: a.DurationMinutes,
		Treatment:       a.Treatment,
		Price:           a.Price,
		EmployeeID:      a.EmployeeID,
	})
}

func (s *CommandServer) deleteAppointment(ctx context.Context, args *structpb.Struct) (any, error) {
	id, err := requireID(args)
	if err != nil {
		return nil, err
	}
	return nil, s.svc.DeleteAppointment(ctx, id)
}

func (s *CommandServer) getPreferenceList(ctx context.Context, _ *structpb.Struct) (any, error) {
	return s.svc.PreferenceList(ctx)
}

func (s *CommandServer) storePreference(ctx context.Context, args *structpb.Struct) (any, error) {
	var in struct {
		Preference *domain.PreferenceEdit `json:"preference"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.Preference == nil {
		return nil, argumentError("missing argument preference")
	}
	return nil, s.svc.StorePreference(ctx, *in.Preference)
}
