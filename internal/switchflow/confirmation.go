package switchflow

import (
	"context"
	"sync"
)

// Outcome 确认结果
type Outcome int

const (
	// Cancelled 用户取消
	Cancelled Outcome = iota
	// Confirmed 用户确认
	Confirmed
)

func (o Outcome) String() string {
	if o == Confirmed {
		return "confirmed"
	}
	return "cancelled"
}

// Confirmation 一次性切换确认。
// Confirm/Cancel 只有第一次调用生效，之后的调用是无害 no-op；
// Wait 在结果到达或 ctx 取消前阻塞。
type Confirmation struct {
	once sync.Once
	done chan Outcome
}

// NewConfirmation 创建待确认句柄
func NewConfirmation() *Confirmation {
	return &Confirmation{done: make(chan Outcome, 1)}
}

// Confirm 用户确认切换
func (c *Confirmation) Confirm() {
	c.once.Do(func() { c.done <- Confirmed })
}

// Cancel 用户取消切换
func (c *Confirmation) Cancel() {
	c.once.Do(func() { c.done <- Cancelled })
}

// Wait 阻塞等待结果；ctx 取消按 Cancelled 处理
func (c *Confirmation) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-ctx.Done():
		return Cancelled, ctx.Err()
	case o := <-c.done:
		return o, nil
	}
}
