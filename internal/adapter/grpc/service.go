package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "investtrack.v1.InvestTrackService"

// Method names; requests and responses are google.protobuf.Struct messages
const (
	MethodPreviewPlan           = "PreviewPlan"
	MethodCreateSimulation      = "CreateSimulation"
	MethodGetSimulation         = "GetSimulation"
	MethodListSimulations       = "ListSimulations"
	MethodDeleteSimulation      = "DeleteSimulation"
	MethodCloneSimulation       = "CloneSimulation"
	MethodRenderSimulationChart = "RenderSimulationChart"
	MethodGetDashboard          = "GetDashboard"
	MethodGetPortfolio          = "GetPortfolio"
	MethodListPortfolios        = "ListPortfolios"
)

// InvestTrackServiceServer is the server API for the InvestTrack service
type InvestTrackServiceServer interface {
	PreviewPlan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSimulations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloneSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RenderSimulationChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDashboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPortfolio(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPortfolios(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(InvestTrackServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes the InvestTrack service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InvestTrackServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method(MethodPreviewPlan, InvestTrackServiceServer.PreviewPlan),
		method(MethodCreateSimulation, InvestTrackServiceServer.CreateSimulation),
		method(MethodGetSimulation, InvestTrackServiceServer.GetSimulation),
		method(MethodListSimulations, InvestTrackServiceServer.ListSimulations),
		method(MethodDeleteSimulation, InvestTrackServiceServer.DeleteSimulation),
		method(MethodCloneSimulation, InvestTrackServiceServer.CloneSimulation),
		method(MethodRenderSimulationChart, InvestTrackServiceServer.RenderSimulationChart),
		method(MethodGetDashboard, InvestTrackServiceServer.GetDashboard),
		method(MethodGetPortfolio, InvestTrackServiceServer.GetPortfolio),
		method(MethodListPortfolios, InvestTrackServiceServer.ListPortfolios),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "investtrack/v1/investtrack.proto",
}

// RegisterInvestTrackServiceServer registers srv on s
func RegisterInvestTrackServiceServer(s grpc.ServiceRegistrar, srv InvestTrackServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns "/investtrack.v1.InvestTrackService/<name>"
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func method(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := FullMethod(name)
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(InvestTrackServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(InvestTrackServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls the InvestTrack service over a client connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new InvestTrack client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes the named method with req and returns the response struct
func (c *Client) Call(ctx context.Context, name string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(name), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
