package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"skillsync-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

var errSentinel = errors.New("sentinel")

func TestAppError(t *testing.T) {
	t.Run("Should unwrap to the wrapped cause", func(t *testing.T) {
		err := apperror.New(http.StatusBadRequest, "bad", errSentinel)
		wrapped := fmt.Errorf("handler: %w", err)

		assert.ErrorIs(t, wrapped, errSentinel)

		var appErr *apperror.AppError
		assert.True(t, errors.As(wrapped, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, "bad", appErr.Error())
	})

	t.Run("Should hide internal detail from the message", func(t *testing.T) {
		err := apperror.Internal(errors.New("pq: password authentication failed"))
		assert.Equal(t, http.StatusInternalServerError, err.Code)
		assert.Equal(t, "Internal Server Error", err.Message)
	})
}
