package api

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ConversationService_GetOrCreateConversation_FullMethodName = "/market.v1.ConversationService/GetOrCreateConversation"
	ConversationService_SendMessage_FullMethodName             = "/market.v1.ConversationService/SendMessage"
	ConversationService_MarkRead_FullMethodName                = "/market.v1.ConversationService/MarkRead"
	ConversationService_ListConversations_FullMethodName       = "/market.v1.ConversationService/ListConversations"
	ConversationService_ListMessages_FullMethodName            = "/market.v1.ConversationService/ListMessages"
	ConversationService_Subscribe_FullMethodName               = "/market.v1.ConversationService/Subscribe"
)

type ConversationServiceServer interface {
	GetOrCreateConversation(context.Context, *GetOrCreateConversationRequest) (*ConversationResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*MessageResponse, error)
	MarkRead(context.Context, *MarkReadRequest) (*Empty, error)
	ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	Subscribe(*SubscribeRequest, grpc.ServerStreamingServer[Event]) error
}

func RegisterConversationServiceServer(s grpc.ServiceRegistrar, srv ConversationServiceServer) {
	s.RegisterService(&ConversationService_ServiceDesc, srv)
}

func _ConversationService_Subscribe_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ConversationServiceServer).Subscribe(m, &grpc.GenericServerStream[SubscribeRequest, Event]{ServerStream: stream})
}

var ConversationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "market.v1.ConversationService",
	HandlerType: (*ConversationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetOrCreateConversation",
			Handler:    unary(ConversationService_GetOrCreateConversation_FullMethodName, ConversationServiceServer.GetOrCreateConversation),
		},
		{
			MethodName: "SendMessage",
			Handler:    unary(ConversationService_SendMessage_FullMethodName, ConversationServiceServer.SendMessage),
		},
		{
			MethodName: "MarkRead",
			Handler:    unary(ConversationService_MarkRead_FullMethodName, ConversationServiceServer.MarkRead),
		},
		{
			MethodName: "ListConversations",
			Handler:    unary(ConversationService_ListConversations_FullMethodName, ConversationServiceServer.ListConversations),
		},
		{
			MethodName: "ListMessages",
			Handler:    unary(ConversationService_ListMessages_FullMethodName, ConversationServiceServer.ListMessages),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _ConversationService_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "market/v1/conversation.json",
}

type ConversationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewConversationServiceClient(cc grpc.ClientConnInterface) *ConversationServiceClient {
	return &ConversationServiceClient{cc: cc}
}

func (c *ConversationServiceClient) GetOrCreateConversation(ctx context.Context, in *GetOrCreateConversationRequest, opts ...grpc.CallOption) (*ConversationResponse, error) {
	return invoke[ConversationResponse](ctx, c.cc, ConversationService_GetOrCreateConversation_FullMethodName, in, opts)
}

func (c *ConversationServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ConversationService_SendMessage_FullMethodName, in, opts)
}

func (c *ConversationServiceClient) MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, ConversationService_MarkRead_FullMethodName, in, opts)
}

func (c *ConversationServiceClient) ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error) {
	return invoke[ListConversationsResponse](ctx, c.cc, ConversationService_ListConversations_FullMethodName, in, opts)
}

func (c *ConversationServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, ConversationService_ListMessages_FullMethodName, in, opts)
}

func (c *ConversationServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Event], error) {
	opts = append([]grpc.CallOption{CallJSON()}, opts...)
	stream, err := c.cc.NewStream(ctx, &ConversationService_ServiceDesc.Streams[0], ConversationService_Subscribe_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[SubscribeRequest, Event]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
