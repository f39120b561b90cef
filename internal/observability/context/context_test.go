package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetters(t *testing.T) {
	ctx := context.Background()
	ctx = WithOperation(ctx, "scan")
	ctx = WithComponent(ctx, "processor")
	ctx = WithFilePath(ctx, "src/A.java")
	ctx = WithSourceType(ctx, "java")
	ctx = WithPass(ctx, "match")

	assert.Equal(t, "scan", GetOperation(ctx))
	assert.Equal(t, "processor", GetComponent(ctx))
	assert.Equal(t, "src/A.java", GetFilePath(ctx))
	assert.Equal(t, "java", GetSourceType(ctx))
	assert.Equal(t, "match", GetPass(ctx))
}

func TestGetters_Defaults(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "unknown", GetOperation(ctx))
	assert.Equal(t, "unknown", GetComponent(ctx))
	assert.Equal(t, "", GetFilePath(ctx))
	assert.Equal(t, "", GetSourceType(ctx))
	assert.Equal(t, "", GetPass(ctx))
}

func TestExtractContextFields(t *testing.T) {
	t.Run("includes only set values in a fixed order", func(t *testing.T) {
		ctx := WithFilePath(NewOperationContext("scan", "cli"), "a.c")

		assert.Equal(t, []any{
			"operation", "scan",
			"component", "cli",
			"file_path", "a.c",
		}, ExtractContextFields(ctx))
	})

	t.Run("empty context gives no fields", func(t *testing.T) {
		assert.Empty(t, ExtractContextFields(context.Background()))
	})

	t.Run("nil context gives no fields", func(t *testing.T) {
		//nolint:staticcheck // nil context is tolerated on purpose
		assert.Nil(t, ExtractContextFields(nil))
	})
}
