package vm

import (
	"testing"

	"github.com/nonl4331/lace/internal/log"
)

// testHarness wires a *testing.T to the machine's logger so instruction traces land in -v output.
type testHarness struct {
	*testing.T
}

func NewTestHarness(t *testing.T) *testHarness {
	t.Helper()

	return &testHarness{T: t}
}

func (t *testHarness) Make(opts ...OptionFn) *LC3 {
	all := append([]OptionFn{WithLogger(log.NewFormattedLogger(t))}, opts...)
	return New(all...)
}

func (t *testHarness) Write(b []byte) (int, error) {
	t.T.Helper()
	t.T.Log(string(b))

	return len(b), nil
}
