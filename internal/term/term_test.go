package term

import (
	"errors"
	"os"
	"testing"
)

func TestNewRequiresTTY(tt *testing.T) {
	tt.Parallel()

	r, w, err := os.Pipe()
	if err != nil {
		tt.Fatalf("Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	_, err = New(r, w)
	if !errors.Is(err, ErrNoTTY) {
		tt.Errorf("New(pipe) want ErrNoTTY, got: %v", err)
	}
}
