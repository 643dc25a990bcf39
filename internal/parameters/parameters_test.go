package parameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfigString(t *testing.T) {
	params := NewFromConfigString("strict, max_moves=20,name=a=b,,")
	assert.Equal(t, Params{"strict": "", "max_moves": "20", "name": "a=b"}, params)
	assert.Empty(t, NewFromConfigString(""))
}

func TestPopParamOr(t *testing.T) {
	params := NewFromConfigString("strict,off=false,max_moves=20,ratio=0.5,name=GRAY,bad=x")

	strict, err := PopParamOr(params, "strict", false)
	require.NoError(t, err)
	assert.True(t, strict)

	off, err := PopParamOr(params, "off", true)
	require.NoError(t, err)
	assert.False(t, off)

	maxMoves, err := PopParamOr(params, "max_moves", 0)
	require.NoError(t, err)
	assert.Equal(t, 20, maxMoves)

	ratio, err := PopParamOr(params, "ratio", 1.0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ratio)

	name, err := PopParamOr(params, "name", "BLACK")
	require.NoError(t, err)
	assert.Equal(t, "GRAY", name)

	missing, err := PopParamOr(params, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, missing)

	_, err = GetParamOr(params, "bad", 0)
	require.Error(t, err)
	_, err = GetParamOr(params, "bad", false)
	require.Error(t, err)

	err = CheckAllUsed(params)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
	delete(params, "bad")
	require.NoError(t, CheckAllUsed(params))
}
