package test

// Writer is an alias for CompareWriter, retained under this name because
// callers that only need to capture output and compare it against an
// expected string tend to read better as test.Writer than test.CompareWriter.
type Writer = CompareWriter
