package cache

import "errors"

// ErrClosed is returned when a cache is used after Close.
var ErrClosed = errors.New("cache closed")
