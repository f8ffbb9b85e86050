package threadmgr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTry(t *testing.T) {
	assert.NoError(t, Try(func() {}))

	err := Try(func() { panic("boom") })
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.EqualError(t, err, "panic: boom")

	sentinel := errors.New("sentinel")
	assert.ErrorIs(t, Try(func() { panic(sentinel) }), sentinel)
}
