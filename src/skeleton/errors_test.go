package skeleton

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"straightskel/src/circular"
)

func TestInvariantErrorWrapsCause(t *testing.T) {
	err := newInvariantError(circular.ErrInconsistent)
	require.ErrorIs(t, err, ErrInconsistent)
	require.ErrorIs(t, err, circular.ErrInconsistent)
	assert.Contains(t, err.Error(), "TestInvariantErrorWrapsCause")
}

func TestCheckErrorRecovers(t *testing.T) {
	boom := errors.New("boom")
	run := func(v any) (err error) {
		defer checkError(&err)
		if v != nil {
			panic(v)
		}
		return nil
	}
	require.NoError(t, run(nil))
	require.ErrorIs(t, run(boom), boom)
	require.ErrorIs(t, run("text"), ErrInconsistent)
}

func TestOrPanic(t *testing.T) {
	require.NotPanics(t, func() { orPanic(nil) })

	finalized := false
	require.Panics(t, func() {
		orPanic(errors.New("boom"), func() { finalized = true })
	})
	assert.True(t, finalized)
}

func TestSetLogger(t *testing.T) {
	SetLogger(nil)
	require.NotNil(t, Logger())
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}
