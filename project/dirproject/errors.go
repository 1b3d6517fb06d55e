package dirproject

import "errors"

var (
	// ErrScanBusy 上一次重新解析还没有结束
	ErrScanBusy = errors.New("scan already running")
	// ErrNotDirectory 项目路径不是目录
	ErrNotDirectory = errors.New("not a directory")
)
