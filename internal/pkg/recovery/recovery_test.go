package recovery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/internship-backend/internal/pkg/apperror"
)

func TestCall(t *testing.T) {
	assert.NoError(t, Call(func() error { return nil }))

	sentinel := errors.New("boom")
	assert.ErrorIs(t, Call(func() error { return sentinel }), sentinel)

	err := Call(func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	assert.Equal(t, apperror.ErrCodeInternal, apperror.CodeOf(err))
	assert.Equal(t, 10, apperror.ExitCode(err))
}
