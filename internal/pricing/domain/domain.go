// 包 定价服务的领域模型：Black-Scholes 定价函数与价格曲面生成
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DaysPerYear 年化天数，时间参数以天为单位输入
const DaysPerYear = 365.25

// InfiniteVolatility 用一个极大但有限的波动率表示“无限波动率”
const InfiniteVolatility = 1e9

var (
	// ErrDomain 数学前置条件不成立（非正的标的价格/行权价、到期前波动率非正、非有限输入）
	ErrDomain = errors.New("pricing domain error")
	// ErrInvalidParameter 请求参数非法（网格大小、波动率区间、期权类型等）
	ErrInvalidParameter = errors.New("invalid pricing parameter")
)

// OptionKind 期权类型
type OptionKind uint8

const (
	Call OptionKind = iota // 看涨期权
	Put                    // 看跌期权
)

// Label 展示用名称
func (k OptionKind) Label() string {
	switch k {
	case Call:
		return "Call"
	case Put:
		return "Put"
	default:
		return fmt.Sprintf("OptionKind(%d)", uint8(k))
	}
}

func (k OptionKind) String() string { return k.Label() }

// IsCall 是否为看涨期权
func (k OptionKind) IsCall() bool { return k == Call }

// Valid 是否为已知的期权类型
func (k OptionKind) Valid() bool { return k == Call || k == Put }

// ParseOptionKind 解析期权类型，大小写不敏感
func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return Call, fmt.Errorf("%w: unknown option kind %q", ErrInvalidParameter, s)
}

// MarshalText 实现 encoding.TextMarshaler
func (k OptionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: unknown option kind %d", ErrInvalidParameter, uint8(k))
	}
	return []byte(k.Label()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (k *OptionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseOptionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Pricer 期权定价器
type Pricer interface {
	Price(in PriceInput) (float64, error)
}

// PricerFunc 将普通函数适配为 Pricer
type PricerFunc func(in PriceInput) (float64, error)

func (f PricerFunc) Price(in PriceInput) (float64, error) { return f(in) }

// BlackScholes 未带缓存的闭式定价器
var BlackScholes Pricer = PricerFunc(BlackScholesPrice)
