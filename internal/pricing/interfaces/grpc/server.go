// Package grpc 定价服务的 gRPC 接口
package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wyfcoding/bsintuition/internal/pricing/application"
	"github.com/wyfcoding/bsintuition/internal/pricing/domain"
	"github.com/wyfcoding/bsintuition/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// PricingService gRPC 层依赖的应用服务
type PricingService interface {
	PriceOption(ctx context.Context, cmd application.PriceOptionCommand) (*application.QuoteDTO, error)
	GenerateSurface(ctx context.Context, cmd application.GenerateSurfaceCommand) (*application.SurfaceDTO, error)
}

// Server gRPC 处理器
type Server struct {
	app PricingService
}

// NewServer 创建处理器并注册到 grpc.Server
func NewServer(s grpc.ServiceRegistrar, app PricingService) *Server {
	srv := &Server{app: app}
	RegisterPricingServiceServer(s, srv)
	return srv
}

// PriceOption 期权定价
func (s *Server) PriceOption(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var cmd application.PriceOptionCommand
	if err := fromStruct(req, &cmd); err != nil {
		return nil, err
	}
	quote, err := s.app.PriceOption(ctx, cmd)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return toStruct(quote)
}

// GenerateSurface 生成价格曲面
func (s *Server) GenerateSurface(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var cmd application.GenerateSurfaceCommand
	if err := fromStruct(req, &cmd); err != nil {
		return nil, err
	}
	surface, err := s.app.GenerateSurface(ctx, cmd)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return toStruct(surface)
}

func fromStruct(in *structpb.Struct, out any) error {
	if in == nil || len(in.GetFields()) == 0 {
		return nil
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// CodeOf 错误到 gRPC 状态码的映射
func CodeOf(err error) codes.Code {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, domain.ErrDomain):
		return codes.InvalidArgument
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

func toStatus(ctx context.Context, err error) error {
	code := CodeOf(err)
	if code == codes.Internal {
		logger.Error(ctx, "pricing rpc failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
