package test

import (
	"fmt"
	"math"
	"testing"
)

// ExpectFailure tests argument v for a failure condition suitable for its
// type. Currently supported types:
//
//	bool -> bool == false
//	error -> error != nil
//
// A nil value is treated as success, and so fails this expectation.
func ExpectFailure(t *testing.T, v interface{}) bool {
	t.Helper()
	if expect(t, v) {
		t.Errorf("expected failure for type %T", v)
		return false
	}
	return true
}

// ExpectSuccess tests argument v for a success condition suitable for its
// type. Currently supported types:
//
//	bool -> bool == true
//	error -> error == nil
//
// A nil value is always a success.
func ExpectSuccess(t *testing.T, v interface{}) bool {
	t.Helper()
	if !expect(t, v) {
		t.Errorf("expected success for type %T", v)
		return false
	}
	return true
}

// ExpectedFailure is an alias of ExpectFailure, kept for call sites that
// predate the ExpectFailure/ExpectSuccess naming.
func ExpectedFailure(t *testing.T, v interface{}) bool {
	t.Helper()
	return ExpectFailure(t, v)
}

// ExpectedSuccess is an alias of ExpectSuccess, kept for call sites that
// predate the ExpectFailure/ExpectSuccess naming.
func ExpectedSuccess(t *testing.T, v interface{}) bool {
	t.Helper()
	return ExpectSuccess(t, v)
}

// expect is the shared success/failure predicate used by ExpectSuccess,
// ExpectFailure and the Demand family in demand.go.
func expect(t *testing.T, v interface{}) bool {
	t.Helper()
	switch v := v.(type) {
	case bool:
		return v
	case error:
		return v == nil
	case nil:
		return true
	default:
		t.Fatalf("unsupported type (%T) for expectation testing", v)
		return false
	}
}

// id formats an optional set of tags as a prefix for a failure message, so
// that DemandEquality and friends can identify which call site failed when
// used in a loop or table test.
func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	s := ""
	for _, tag := range tags {
		s += fmt.Sprint(tag) + ": "
	}
	return s
}

// ExpectEquality compares got against want and reports a test error if they
// differ.
func ExpectEquality[T comparable](t *testing.T, got, want T) bool {
	t.Helper()
	if got != want {
		t.Errorf("equality test of type %T failed: '%v' does not equal '%v'", got, got, want)
		return false
	}
	return true
}

// ExpectInequality compares got against notWant and reports a test error if
// they are equal.
func ExpectInequality[T comparable](t *testing.T, got, notWant T) bool {
	t.Helper()
	if got == notWant {
		t.Errorf("inequality test of type %T failed: '%v' equals '%v'", got, got, notWant)
		return false
	}
	return true
}

// ExpectApproximate compares got against want, allowing for the given
// tolerance either side of want. The tolerance is a fraction of want: 0.1
// allows got to differ from want by up to 10%. Useful for floating point
// comparisons.
func ExpectApproximate(t *testing.T, got, want, tolerance float64) bool {
	t.Helper()
	tolerance = math.Abs(tolerance)
	lo, hi := want*(1-tolerance), want*(1+tolerance)
	if lo > hi {
		lo, hi = hi, lo
	}
	if got < lo || got > hi {
		t.Errorf("approximate equality test failed: '%v' is not within %v of '%v'", got, tolerance, want)
		return false
	}
	return true
}
