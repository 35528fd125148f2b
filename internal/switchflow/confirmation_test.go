package switchflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfirmationConfirm 确认后Wait返回Confirmed
func TestConfirmationConfirm(t *testing.T) {
	conf := NewConfirmation()
	conf.Confirm()

	outcome, err := conf.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Confirmed, outcome)
}

// TestConfirmationCancel 取消后Wait返回Cancelled
func TestConfirmationCancel(t *testing.T) {
	conf := NewConfirmation()
	conf.Cancel()

	outcome, err := conf.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Cancelled, outcome)
}

// TestConfirmationFirstWins 只有第一次调用生效
func TestConfirmationFirstWins(t *testing.T) {
	conf := NewConfirmation()
	conf.Cancel()
	conf.Confirm() // no-op

	outcome, err := conf.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Cancelled, outcome)
}

// TestConfirmationContextTimeout ctx超时按取消处理并返回错误
func TestConfirmationContextTimeout(t *testing.T) {
	conf := NewConfirmation()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	outcome, err := conf.Wait(ctx)
	assert.Error(t, err)
	assert.Equal(t, Cancelled, outcome)
}
