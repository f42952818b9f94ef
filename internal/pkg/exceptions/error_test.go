package exceptions

import (
	"errors"
	"testing"
	"zemedic-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewCustomError(t *testing.T) {
	t.Run("Wraps a plain error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrMongoDBFindDocument(cause)

		assert.Equal(t, constvars.StatusInternalServerError, err.StatusCode)
		assert.Contains(t, err.DevMessage, "connection refused")
		assert.ErrorIs(t, err, cause)
		require.Len(t, err.Locations, 1)
	})

	t.Run("Keeps the innermost status", func(t *testing.T) {
		inner := ErrAnalysisNotFound(nil, "abc")
		outer := ErrMongoDBFindDocument(inner)

		assert.Same(t, inner, outer)
		assert.Equal(t, constvars.StatusNotFound, outer.StatusCode)
		assert.Equal(t, constvars.ErrClientAnalysisNotFound, outer.ClientMessage)
		assert.Len(t, outer.Locations, 2)
	})

	t.Run("Nil cause", func(t *testing.T) {
		err := ErrAnalysisForbidden(nil, "abc")
		assert.Equal(t, constvars.StatusForbidden, err.StatusCode)
		assert.Equal(t, "analysis abc belongs to another user", err.DevMessage)
		assert.Nil(t, err.Unwrap())
	})
}

func TestFormatFirstValidationError(t *testing.T) {
	type input struct {
		Email string `validate:"required,email"`
		Name  string `validate:"max=3"`
	}
	v := validator.New()

	err := v.Struct(input{Email: "", Name: "ok"})
	assert.Equal(t, "email is required", FormatFirstValidationError(err))

	err = v.Struct(input{Email: "a@b.co", Name: "toolong"})
	assert.Equal(t, "name maximum at 3 characters long", FormatFirstValidationError(err))

	assert.Equal(t, constvars.ErrDevInvalidInput, FormatFirstValidationError(errors.New("bad json")))
	assert.Equal(t, constvars.ErrClientCannotProcessRequest, FormatFirstValidationError(nil))
}

func TestErrInputValidation_UsesReadableDetail(t *testing.T) {
	type input struct {
		Email string `validate:"required"`
	}
	err := ErrInputValidation(validator.New().Struct(input{}))
	assert.Equal(t, constvars.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "email is required", err.ClientMessage)
}
