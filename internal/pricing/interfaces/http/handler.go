package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/bsintuition/internal/pricing/application"
	"github.com/wyfcoding/bsintuition/internal/pricing/domain"
	"github.com/wyfcoding/bsintuition/pkg/logger"
	"github.com/wyfcoding/bsintuition/pkg/response"
)

// PricingService HTTP 层依赖的应用服务
type PricingService interface {
	PriceOption(ctx context.Context, cmd application.PriceOptionCommand) (*application.QuoteDTO, error)
	GenerateSurface(ctx context.Context, cmd application.GenerateSurfaceCommand) (*application.SurfaceDTO, error)
	Defaults() application.Defaults
}

// PricingHandler HTTP 处理器
// 负责处理与定价相关的 HTTP 请求
type PricingHandler struct {
	svc PricingService
}

// NewPricingHandler 创建 HTTP 处理器实例
func NewPricingHandler(svc PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// RegisterRoutes 将处理器方法绑定到 Gin 路由
func (h *PricingHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/option/price", h.PriceOption)
		api.POST("/surface", h.GenerateSurface)
		api.GET("/defaults", h.GetDefaults)
	}
}

// PriceOption 期权定价，请求体字段均可省略
func (h *PricingHandler) PriceOption(c *gin.Context) {
	var cmd application.PriceOptionCommand
	if !bind(c, &cmd) {
		return
	}

	quote, err := h.svc.PriceOption(c.Request.Context(), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, quote)
}

// GenerateSurface 生成价格曲面
func (h *PricingHandler) GenerateSurface(c *gin.Context) {
	var cmd application.GenerateSurfaceCommand
	if !bind(c, &cmd) {
		return
	}

	surface, err := h.svc.GenerateSurface(c.Request.Context(), cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, surface)
}

// GetDefaults 默认参数
func (h *PricingHandler) GetDefaults(c *gin.Context) {
	response.Success(c, h.svc.Defaults())
}

// bind 空请求体视为全部使用默认值
// 分块传输的空请求体 ContentLength 为 -1，以解码时的 io.EOF 识别
func bind(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// StatusOf 错误到 HTTP 状态码的映射
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDomain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "pricing request failed", "error", err)
		response.ErrorWithStatus(c, status, "internal server error", "")
		return
	}
	response.ErrorWithStatus(c, status, err.Error(), "")
}
