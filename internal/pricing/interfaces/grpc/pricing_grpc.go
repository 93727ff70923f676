package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName 定价服务全名
const ServiceName = "bsintuition.pricing.v1.PricingService"

const (
	PriceOptionFullMethod     = "/" + ServiceName + "/PriceOption"
	GenerateSurfaceFullMethod = "/" + ServiceName + "/GenerateSurface"
)

// PricingServiceServer 定价 gRPC 服务
// 请求与响应均为 google.protobuf.Struct，字段与 HTTP JSON 一致
type PricingServiceServer interface {
	PriceOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GenerateSurface(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterPricingServiceServer 注册服务
func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&PricingServiceDesc, srv)
}

func priceOptionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).PriceOption(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PriceOptionFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServiceServer).PriceOption(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func generateSurfaceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServiceServer).GenerateSurface(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GenerateSurfaceFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServiceServer).GenerateSurface(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// PricingServiceDesc 服务描述
var PricingServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PriceOption", Handler: priceOptionHandler},
		{MethodName: "GenerateSurface", Handler: generateSurfaceHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bsintuition/pricing/v1/pricing.proto",
}

// PricingServiceClient 定价 gRPC 客户端
type PricingServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPricingServiceClient 创建客户端
func NewPricingServiceClient(cc grpc.ClientConnInterface) *PricingServiceClient {
	return &PricingServiceClient{cc: cc}
}

// PriceOption 期权定价
func (c *PricingServiceClient) PriceOption(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PriceOptionFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateSurface 生成价格曲面
func (c *PricingServiceClient) GenerateSurface(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GenerateSurfaceFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
