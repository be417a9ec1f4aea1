package streaming

import (
	"context"
	"time"

	"github.com/KevinKickass/StormBridge/internal/channels"
	"github.com/KevinKickass/StormBridge/internal/metrics"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ChannelServiceName = "stormbridge.v1.ChannelService"
	snapshotFullMethod = "/" + ChannelServiceName + "/Snapshot"
	watchFullMethod    = "/" + ChannelServiceName + "/Watch"
)

// ChannelServiceServer serves bus snapshots and the live frame stream.
// Messages are protobuf well-known types, so no generated code is needed.
type ChannelServiceServer interface {
	Snapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Watch(*emptypb.Empty, grpc.ServerStream) error
}

// SnapshotSource is the read side of the bus.
type SnapshotSource interface {
	Snapshot() channels.Snapshot
}

var ChannelServiceDesc = grpc.ServiceDesc{
	ServiceName: ChannelServiceName,
	HandlerType: (*ChannelServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Snapshot", Handler: snapshotHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: watchHandler, ServerStreams: true},
	},
	Metadata: "stormbridge/v1/channels.proto",
}

func RegisterChannelServiceServer(s grpc.ServiceRegistrar, srv ChannelServiceServer) {
	s.RegisterService(&ChannelServiceDesc, srv)
}

func snapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChannelServiceServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: snapshotFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChannelServiceServer).Snapshot(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ChannelServiceServer).Watch(in, stream)
}

type ChannelService struct {
	source   SnapshotSource
	streamer *FrameStreamer
	metrics  *metrics.Metrics
}

func NewChannelService(source SnapshotSource, streamer *FrameStreamer, m *metrics.Metrics) *ChannelService {
	return &ChannelService{
		source:   source,
		streamer: streamer,
		metrics:  m,
	}
}

func (s *ChannelService) Snapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	frame := &Frame{
		Sequence:  s.streamer.Sequence(),
		Timestamp: time.Now(),
		Channels:  s.source.Snapshot(),
	}
	return frame.ToStruct()
}

func (s *ChannelService) Watch(_ *emptypb.Empty, stream grpc.ServerStream) error {
	id, frames := s.streamer.Subscribe()
	defer s.streamer.Unsubscribe(id)

	if s.metrics != nil {
		gauge := s.metrics.StreamClients.WithLabelValues("grpc")
		gauge.Inc()
		defer gauge.Dec()
	}

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return nil
			}

			msg, err := frame.ToStruct()
			if err != nil {
				return err
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}

		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}

// ChannelClient is the client side of ChannelService.
type ChannelClient struct {
	cc grpc.ClientConnInterface
}

func NewChannelClient(cc grpc.ClientConnInterface) *ChannelClient {
	return &ChannelClient{cc: cc}
}

func (c *ChannelClient) Snapshot(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, snapshotFullMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FrameStream receives frames from Watch.
type FrameStream struct {
	stream grpc.ClientStream
}

func (s *FrameStream) Recv() (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := s.stream.RecvMsg(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChannelClient) Watch(ctx context.Context, opts ...grpc.CallOption) (*FrameStream, error) {
	stream, err := c.cc.NewStream(ctx, &ChannelServiceDesc.Streams[0], watchFullMethod, opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &FrameStream{stream: stream}, nil
}
