package syncsched

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrTransient 显式标记的瞬态失败（可用 fmt.Errorf("...: %w", ErrTransient) 包装）
var ErrTransient = errors.New("transient sync failure")

// IsTransient 判定失败是否为网络瞬态（主机不可达、超时等），
// 只有瞬态失败才进入退避重试，其余失败对该任务即为终态。
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.EHOSTUNREACH,
		syscall.ENETUNREACH,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
