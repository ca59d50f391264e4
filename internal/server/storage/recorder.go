package storage

import (
	"context"
	"errors"

	"github.com/palemoky/mighty/internal/types"
)

// MultiRecorder 将结算结果依次写入多个记录器
type MultiRecorder []types.ResultRecorder

// NewMultiRecorder 忽略 nil 记录器
func NewMultiRecorder(recorders ...types.ResultRecorder) MultiRecorder {
	m := make(MultiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

// RecordRound 写入全部记录器，单个失败不影响其余
func (m MultiRecorder) RecordRound(ctx context.Context, result *types.RoundResult) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordRound(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
