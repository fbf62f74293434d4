package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 表示因收到系统信号而终止。
	// 使用 errors.Is(err, ErrSignal) 判断是否为信号错误。
	ErrSignal = errors.New("received signal")

	// ErrNilFunc 传入的任务函数为 nil
	ErrNilFunc = errors.New("xrun: nil func")
)

// SignalError 包含触发终止的具体信号。
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Is 支持 errors.Is(err, ErrSignal) 判断。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

// Unwrap 返回 ErrSignal。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
