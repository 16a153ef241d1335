package source

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrFetch  = errors.New("fetch failed")
	ErrStatus = errors.New("unexpected http status")
	ErrParse  = errors.New("parse failed")
)
