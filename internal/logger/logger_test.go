package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	fallback := Nop()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.Same(t, Default(), FromContext(context.Background(), nil))

	reqLog := fallback.With("request_id", "r-1")
	ctx := WithLogger(context.Background(), reqLog)
	assert.Same(t, reqLog, FromContext(ctx, fallback))
}
