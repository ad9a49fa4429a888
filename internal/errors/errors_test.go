package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewMissingColumnError("Region Code"),
			want: `[MISSING_COLUMN] required column "Region Code" not found`,
		},
		{
			name: "with cause",
			err:  NewDateParseError("2020-13", errors.New("month out of range")),
			want: `[DATE_PARSE] cannot parse migration month "2020-13": month out of range`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewDateParseError("bad", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeDateParse, appErr.Type)
}

func TestIsType(t *testing.T) {
	err := NewMissingColumnError("country_from")
	wrapped := fmt.Errorf("load flows: %w", err)

	assert.True(t, IsType(wrapped, ErrTypeMissingColumn))
	assert.False(t, IsType(wrapped, ErrTypeDateParse))
	assert.False(t, IsType(errors.New("plain"), ErrTypeMissingColumn))
}

func TestNewEmptyResultError(t *testing.T) {
	err := NewEmptyResultError("rolling averages")
	assert.True(t, IsType(err, ErrTypeEmptyResult))
	assert.Contains(t, err.Error(), "rolling averages")
}
