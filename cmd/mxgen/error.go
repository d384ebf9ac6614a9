package main

import "errors"

var (
	// ErrFilterFailed occurs when the filtering pipeline has failed.
	ErrFilterFailed = errors.New("filtering pipeline has failed")
)
