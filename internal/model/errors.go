package model

import "errors"

var (
	// ErrAPIUnavailable 网络/传输层失败，或响应无法解析
	ErrAPIUnavailable = errors.New("market api unavailable")
	// ErrIncompleteData 收到响应但缺少必要字段 (通常是上游限流)
	ErrIncompleteData = errors.New("market data incomplete")
	// ErrNotFound 币种标识不在注册表中
	ErrNotFound = errors.New("coin not found")
	// ErrUnknownRange 图表时间范围不在预设集合中
	ErrUnknownRange = errors.New("unknown chart range")
	// ErrUnknownOption 选项不属于该选项组
	ErrUnknownOption = errors.New("unknown option")
	// ErrUnknownGesture 无法识别的用户操作
	ErrUnknownGesture = errors.New("unknown gesture")
)
