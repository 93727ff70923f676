package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/bsintuition/internal/pricing/domain"
	"github.com/wyfcoding/bsintuition/pkg/logger"
)

// Recorder 定价指标记录
type Recorder interface {
	RecordPrice(kind string)
	RecordPricingError(reason string)
	RecordSurface(points int, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordPrice(string)               {}
func (nopRecorder) RecordPricingError(string)        {}
func (nopRecorder) RecordSurface(int, time.Duration) {}

// PricingService 定价应用服务
// 补全缺省参数、调用定价器、记录指标与日志、执行网格大小上限
type PricingService struct {
	pricer      domain.Pricer
	metrics     Recorder
	maxGridSize int
	defaults    Defaults
}

// NewPricingService 创建定价应用服务，metrics 可为 nil
func NewPricingService(pricer domain.Pricer, metrics Recorder, maxGridSize int, defaults Defaults) *PricingService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &PricingService{
		pricer:      pricer,
		metrics:     metrics,
		maxGridSize: maxGridSize,
		defaults:    defaults,
	}
}

// Defaults 返回配置的默认参数
func (s *PricingService) Defaults() Defaults {
	return s.defaults
}

// PriceOption 期权定价
func (s *PricingService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*QuoteDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params, err := cmd.Resolve(s.defaults)
	if err != nil {
		return nil, s.fail(ctx, "price option", err)
	}

	val, err := domain.Evaluate(s.pricer, params.PriceInput())
	if err != nil {
		return nil, s.fail(ctx, "price option", err)
	}
	s.metrics.RecordPrice(params.Kind.Label())
	logger.Debug(ctx, "option priced",
		"kind", params.Kind.Label(),
		"spot", params.PriceUnderlying,
		"strike", params.Strike,
		"volatility", params.Volatility,
		"price", val.Price,
	)

	return &QuoteDTO{
		Params:    toParamsDTO(params),
		Price:     val.Price,
		Intrinsic: val.Intrinsic,
		TimeValue: val.TimeValue,
	}, nil
}

// GenerateSurface 生成以当前参数为中心的价格曲面
func (s *PricingService) GenerateSurface(ctx context.Context, cmd GenerateSurfaceCommand) (*SurfaceDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params, err := cmd.Resolve(s.defaults)
	if err != nil {
		return nil, s.fail(ctx, "generate surface", err)
	}
	volRange := s.defaults.VolatilityRange
	if cmd.VolatilityRange != nil {
		volRange = *cmd.VolatilityRange
	}
	gridSize := s.defaults.GridSize
	if cmd.GridSize != nil {
		gridSize = *cmd.GridSize
	}
	// 上限针对调整为奇数后的实际网格大小
	if s.maxGridSize > 0 && gridSize > 0 && domain.NormalizeGridSize(gridSize) > s.maxGridSize {
		err := fmt.Errorf("%w: grid size %d (%d after odd adjustment) exceeds limit %d",
			domain.ErrInvalidParameter, gridSize, domain.NormalizeGridSize(gridSize), s.maxGridSize)
		return nil, s.fail(ctx, "generate surface", err)
	}

	start := time.Now()
	surface, err := params.Surface(s.pricer, volRange, gridSize)
	if err != nil {
		return nil, s.fail(ctx, "generate surface", err)
	}
	elapsed := time.Since(start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points := surface.Size() * surface.Size()
	s.metrics.RecordSurface(points, elapsed)
	logger.Info(ctx, "surface generated",
		"kind", params.Kind.Label(),
		"grid_size", surface.Size(),
		"strike_step", surface.StrikeStep,
		"duration", elapsed,
	)

	return toSurfaceDTO(params, volRange, surface, cmd.IncludeMesh), nil
}

func (s *PricingService) fail(ctx context.Context, op string, err error) error {
	reason := ErrorReason(err)
	s.metrics.RecordPricingError(reason)
	logger.Warn(ctx, op+" failed", "reason", reason, "error", err)
	return err
}

// ErrorReason 错误分类，用作指标标签
func ErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, domain.ErrDomain):
		return "domain"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
