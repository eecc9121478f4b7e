package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const CommandServiceName = "customermanager.v1.CommandService"

// Command names, one per repository operation.
const (
	MethodGetEmployeeList    = "GetEmployeeList"
	MethodGetEmployeeByID    = "GetEmployeeById"
	MethodStoreEmployee      = "StoreEmployee"
	MethodDeleteEmployee     = "DeleteEmployee"
	MethodGetCustomerList    = "GetCustomerList"
	MethodGetCustomerByID    = "GetCustomerById"
	MethodStoreCustomer      = "StoreCustomer"
	MethodDeleteCustomer     = "DeleteCustomer"
	MethodGetAppointmentList = "GetAppointmentList"
	MethodGetAppointmentByID = "GetAppointmentById"
	MethodStoreAppointment   = "StoreAppointment"
	MethodDeleteAppointment  = "DeleteAppointment"
	MethodGetPreferenceList  = "GetPreferenceList"
	MethodStorePreference    = "StorePreference"
)

var commandMethods = []string{
	MethodGetEmployeeList,
	MethodGetEmployeeByID,
	MethodStoreEmployee,
	MethodDeleteEmployee,
	MethodGetCustomerList,
	MethodGetCustomerByID,
	MethodStoreCustomer,
	MethodDeleteCustomer,
	MethodGetAppointmentList,
	MethodGetAppointmentByID,
	MethodStoreAppointment,
	MethodDeleteAppointment,
	MethodGetPreferenceList,
	MethodStorePreference,
}

// CommandServiceServer receives every command as its JSON arguments and answers
// with the JSON result.
type CommandServiceServer interface {
	Dispatch(ctx context.Context, method string, args *structpb.Struct) (*structpb.Value, error)
}

func FullMethod(method string) string {
	return "/" + CommandServiceName + "/" + method
}

func commandHandler(method string) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(CommandServiceServer)
		if interceptor == nil {
			return server.Dispatch(ctx, method, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return server.Dispatch(ctx, method, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func commandServiceDesc() *grpc.ServiceDesc {
	methods := make([]grpc.MethodDesc, 0, len(commandMethods))
	for _, m := range commandMethods {
		methods = append(methods, grpc.MethodDesc{
			MethodName: m,
			Handler:    commandHandler(m),
		})
	}
	return &grpc.ServiceDesc{
		ServiceName: CommandServiceName,
		HandlerType: (*CommandServiceServer)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "customermanager/v1/command.proto",
	}
}

func RegisterCommandServiceServer(s grpc.ServiceRegistrar, srv CommandServiceServer) {
	s.RegisterService(commandServiceDesc(), srv)
}

// CommandClient calls CommandService over an established connection.
type CommandClient struct {
	cc grpc.ClientConnInterface
}

func NewCommandClient(cc grpc.ClientConnInterface) *CommandClient {
	return &CommandClient{cc: cc}
}

// Call sends args, anything that encodes to a JSON object, and decodes the JSON
// result into out. out may be nil for commands without a result.
func (c *CommandClient) Call(ctx context.Context, method string, args any, out any, opts ...grpc.CallOption) error {
	in, err := encodeArgs(args)
	if err != nil {
		return err
	}
	resp := new(structpb.Value)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, resp, opts...); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeValue(resp, out)
}
