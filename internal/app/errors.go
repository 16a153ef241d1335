package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoSources = errors.New("no sources available")
	ErrNotReady  = errors.New("no ranking computed yet")
	ErrNotFound  = errors.New("not found")
)
