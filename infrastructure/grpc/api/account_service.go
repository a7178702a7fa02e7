package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	AccountService_CompleteOnboarding_FullMethodName = "/market.v1.AccountService/CompleteOnboarding"
	AccountService_RegisterProvider_FullMethodName   = "/market.v1.AccountService/RegisterProvider"
	AccountService_GetProfile_FullMethodName         = "/market.v1.AccountService/GetProfile"
)

type AccountServiceServer interface {
	CompleteOnboarding(context.Context, *CompleteOnboardingRequest) (*ProfileResponse, error)
	RegisterProvider(context.Context, *Empty) (*Empty, error)
	GetProfile(context.Context, *Empty) (*ProfileResponse, error)
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountService_ServiceDesc, srv)
}

var AccountService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "market.v1.AccountService",
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CompleteOnboarding",
			Handler:    unary(AccountService_CompleteOnboarding_FullMethodName, AccountServiceServer.CompleteOnboarding),
		},
		{
			MethodName: "RegisterProvider",
			Handler:    unary(AccountService_RegisterProvider_FullMethodName, AccountServiceServer.RegisterProvider),
		},
		{
			MethodName: "GetProfile",
			Handler:    unary(AccountService_GetProfile_FullMethodName, AccountServiceServer.GetProfile),
		},
	},
	Metadata: "market/v1/account.json",
}

type AccountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) *AccountServiceClient {
	return &AccountServiceClient{cc: cc}
}

func (c *AccountServiceClient) CompleteOnboarding(ctx context.Context, in *CompleteOnboardingRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, AccountService_CompleteOnboarding_FullMethodName, in, opts)
}

func (c *AccountServiceClient) RegisterProvider(ctx context.Context, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AccountService_RegisterProvider_FullMethodName, &Empty{}, opts)
}

func (c *AccountServiceClient) GetProfile(ctx context.Context, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, AccountService_GetProfile_FullMethodName, &Empty{}, opts)
}
