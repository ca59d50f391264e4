//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/mighty/internal/types"
)

// MockRecorder 实现 types.ResultRecorder 的 mock
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordRound(ctx context.Context, result *types.RoundResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// ChanRecorder 将结算结果写入通道，便于等待异步记录
type ChanRecorder chan *types.RoundResult

func (c ChanRecorder) RecordRound(_ context.Context, result *types.RoundResult) error {
	c <- result
	return nil
}
