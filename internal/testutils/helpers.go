package testutils

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
)

// TestContext creates a test context with timeout and a silent logger.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return zerowrap.WithCtx(ctx, zerowrap.New(zerowrap.Config{Level: "disabled", Output: io.Discard}))
}
