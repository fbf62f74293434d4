package xmetrics

import "errors"

// ErrCreateInstrument 创建 OTel 计数器失败
var ErrCreateInstrument = errors.New("xmetrics: create instrument failed")
