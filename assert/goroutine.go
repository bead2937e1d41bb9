// Package assert provides small runtime-identity helpers used by tests
// to document concurrency claims that are otherwise just comments.
package assert

import (
	"bytes"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns an identifier for the calling goroutine. It
// returns a result that is (a) different between goroutines and (b)
// consistent for a given goroutine. Parsing runtime.Stack's output like
// this is fragile enough that it should only ever be used for debugging
// or testing purposes, never in production control flow.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}
