package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, CodeOf(NotFound("professional", nil)))
	assert.Equal(t, ErrConfiguration, CodeOf(Configuration("missing credentials")))
	assert.Equal(t, ErrInternal, CodeOf(errors.New("plain error")))
}

func TestCodeOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("while handling request: %w", NotFound("unit", nil))
	assert.Equal(t, ErrNotFound, CodeOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
}

func TestErrorMessage(t *testing.T) {
	err := BadRequest("invalid unit id", errors.New("uuid too short"))
	assert.Contains(t, err.Error(), "invalid unit id")
	assert.Contains(t, err.Error(), "uuid too short")

	bare := Configuration("whatsapp credentials are not configured")
	assert.Equal(t, "whatsapp credentials are not configured", bare.Error())
}
