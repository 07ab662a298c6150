package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	app_errors "aiteam-manager/internal/errors"
)

func TestDomainErrors(t *testing.T) {
	assert.EqualError(t, app_errors.ErrChatNotFound, "Chat not found")
	assert.EqualError(t, app_errors.ErrProviderNotFound, "Provider not found")
	assert.ErrorIs(t, app_errors.ErrChatNotFound, app_errors.ErrNotFound)
	assert.ErrorIs(t, fmt.Errorf("load: %w", app_errors.ErrProviderNotFound), app_errors.ErrNotFound)
	assert.False(t, errors.Is(app_errors.ErrChatNotFound, app_errors.ErrProviderNotFound))

	var err error = &app_errors.ProviderDisabledError{Name: "OpenAI"}
	assert.EqualError(t, err, "Provider OpenAI is disabled")
	assert.ErrorIs(t, err, app_errors.ErrProviderDisabled)
}
