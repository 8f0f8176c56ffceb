package repository

import "errors"

// 业务哨兵错误，由 handler 层映射为对应的 HTTP 状态码
var (
	ErrAlreadyInWatchlist = errors.New("already in watchlist")
	ErrNotInWatchlist     = errors.New("not in watchlist")
	ErrReorderMismatch    = errors.New("reorder ids do not match current watchlist")
)
