package tracing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intern-match-go/internal/config"
	"intern-match-go/internal/types"
)

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorTypeNotFound, ClassifyError(fmt.Errorf("load: %w", types.ErrNotFound), ErrorTypeDB))
	assert.Equal(t, ErrorTypeValidation, ClassifyError(types.ErrInvalidStatus, ErrorTypeDB))
	assert.Equal(t, ErrorTypeValidation, ClassifyError(types.ErrInvalidUpload, ErrorTypeDB))
	assert.Equal(t, ErrorTypeDB, ClassifyError(errors.New("boom"), ErrorTypeDB))
}

func TestRecordErrorNilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordError(nil, errors.New("x"), ErrorTypeInternal)
		RecordHTTPError(nil, errors.New("x"), 500)
	})
}

func TestMaskPII(t *testing.T) {
	tests := map[string]string{
		"":                 "",
		"a":                "*",
		"ab":               "a*",
		"abc":              "a*c",
		"jane@example.com": "ja************om",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskPII(in), in)
	}
}

func TestSafeAttributeValue(t *testing.T) {
	assert.Equal(t, "ja************om", SafeAttributeValue("user.email", "jane@example.com", 100))
	assert.Equal(t, "abc", SafeAttributeValue("resume.id", "abc", 100))
	assert.Equal(t, "ab...yz", SafeAttributeValue("content", "abcdefghijklmnopqrstuvwxyz", 7))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "a...f", TruncateString("abcdef", 5))
}

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
