package syncsched

import (
	"context"
	"net"
	"time"
)

// ConnectivityChecker 网络连通性判定。
// 同步任务只在有网络时运行；离线时整轮跳过，任务留在队列里等下一轮。
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

// ProbeChecker 通过 TCP 拨测指定地址判断连通性
type ProbeChecker struct {
	Addr    string
	Timeout time.Duration
}

// NewProbeChecker 创建拨测检查器
func NewProbeChecker(addr string, timeout time.Duration) *ProbeChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ProbeChecker{Addr: addr, Timeout: timeout}
}

func (p *ProbeChecker) Online(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// AlwaysOnline 无探测地址时的默认实现
type AlwaysOnline struct{}

func (AlwaysOnline) Online(ctx context.Context) bool { return true }
