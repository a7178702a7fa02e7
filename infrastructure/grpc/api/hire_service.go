package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	HireService_CreateHireRequest_FullMethodName     = "/market.v1.HireService/CreateHireRequest"
	HireService_TransitionHireRequest_FullMethodName = "/market.v1.HireService/TransitionHireRequest"
	HireService_GetHireRequest_FullMethodName        = "/market.v1.HireService/GetHireRequest"
	HireService_ListHireRequests_FullMethodName      = "/market.v1.HireService/ListHireRequests"
)

type HireServiceServer interface {
	CreateHireRequest(context.Context, *CreateHireRequestRequest) (*HireRequestResponse, error)
	TransitionHireRequest(context.Context, *TransitionHireRequestRequest) (*HireRequestResponse, error)
	GetHireRequest(context.Context, *GetHireRequestRequest) (*HireRequestResponse, error)
	ListHireRequests(context.Context, *ListHireRequestsRequest) (*ListHireRequestsResponse, error)
}

func RegisterHireServiceServer(s grpc.ServiceRegistrar, srv HireServiceServer) {
	s.RegisterService(&HireService_ServiceDesc, srv)
}

var HireService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "market.v1.HireService",
	HandlerType: (*HireServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateHireRequest",
			Handler:    unary(HireService_CreateHireRequest_FullMethodName, HireServiceServer.CreateHireRequest),
		},
		{
			MethodName: "TransitionHireRequest",
			Handler:    unary(HireService_TransitionHireRequest_FullMethodName, HireServiceServer.TransitionHireRequest),
		},
		{
			MethodName: "GetHireRequest",
			Handler:    unary(HireService_GetHireRequest_FullMethodName, HireServiceServer.GetHireRequest),
		},
		{
			MethodName: "ListHireRequests",
			Handler:    unary(HireService_ListHireRequests_FullMethodName, HireServiceServer.ListHireRequests),
		},
	},
	Metadata: "market/v1/hire.json",
}

type HireServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewHireServiceClient(cc grpc.ClientConnInterface) *HireServiceClient {
	return &HireServiceClient{cc: cc}
}

func (c *HireServiceClient) CreateHireRequest(ctx context.Context, in *CreateHireRequestRequest, opts ...grpc.CallOption) (*HireRequestResponse, error) {
	return invoke[HireRequestResponse](ctx, c.cc, HireService_CreateHireRequest_FullMethodName, in, opts)
}

func (c *HireServiceClient) TransitionHireRequest(ctx context.Context, in *TransitionHireRequestRequest, opts ...grpc.CallOption) (*HireRequestResponse, error) {
	return invoke[HireRequestResponse](ctx, c.cc, HireService_TransitionHireRequest_FullMethodName, in, opts)
}

func (c *HireServiceClient) GetHireRequest(ctx context.Context, in *GetHireRequestRequest, opts ...grpc.CallOption) (*HireRequestResponse, error) {
	return invoke[HireRequestResponse](ctx, c.cc, HireService_GetHireRequest_FullMethodName, in, opts)
}

func (c *HireServiceClient) ListHireRequests(ctx context.Context, in *ListHireRequestsRequest, opts ...grpc.CallOption) (*ListHireRequestsResponse, error) {
	return invoke[ListHireRequestsResponse](ctx, c.cc, HireService_ListHireRequests_FullMethodName, in, opts)
}
