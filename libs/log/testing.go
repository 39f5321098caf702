package log

import (
	"os"
	"testing"
)

// NewTestingLogger returns a console logger when the test run is verbose and
// a nop logger otherwise.
func NewTestingLogger(t *testing.T) Logger {
	t.Helper()
	if !testing.Verbose() {
		return NewNopLogger()
	}
	l, err := NewLogger(os.Stdout, LogLevelDebug)
	if err != nil {
		t.Fatalf("creating testing logger: %v", err)
	}
	return l
}
