// Package permission 将平台的权限标志归约为三态判定。
package permission

import (
	"go.uber.org/zap"
)

// Decision 权限判定结果
type Decision int

const (
	// Granted 权限已授予，可读取真实设备状态
	Granted Decision = iota
	// NeedsRationale 未授予，但平台允许再次请求（首次拒绝或从未询问），
	// 调用方应先向用户说明用途再发起请求
	NeedsRationale
	// PermanentlyDenied 未授予且应用内请求不会再成功，只能引导到系统设置
	PermanentlyDenied
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case NeedsRationale:
		return "needs_rationale"
	case PermanentlyDenied:
		return "permanently_denied"
	default:
		return "unknown"
	}
}

// Source 平台暴露的权限标志。
// Granted 表示当前授权状态；CanPrompt 表示应用内再次请求是否可能成功。
type Source interface {
	Granted() bool
	CanPrompt() bool
}

// Gate 权限门。无副作用，每次采集前重新判定（授权状态可能随时被系统改变，
// 不允许跨进程重启缓存判定结果）。
type Gate struct {
	source Source
	logger *zap.Logger
}

// NewGate 创建权限门
func NewGate(source Source, logger *zap.Logger) *Gate {
	return &Gate{source: source, logger: logger}
}

// Evaluate 读取平台标志并归约为三态判定
func (g *Gate) Evaluate() Decision {
	if g.source == nil {
		// 无平台来源视为永久拒绝，读取路径会降级到 mock 数据
		return PermanentlyDenied
	}

	if g.source.Granted() {
		return Granted
	}

	decision := PermanentlyDenied
	if g.source.CanPrompt() {
		decision = NeedsRationale
	}

	if g.logger != nil {
		g.logger.Debug("permission evaluated", zap.String("decision", decision.String()))
	}
	return decision
}
