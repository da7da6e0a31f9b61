package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPrompts(t *testing.T) {
	all, err := selectPrompts(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	picked, err := selectPrompts([]string{"emma", "ALEX"})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	assert.Equal(t, "Emma", picked[0].Name)
	assert.Equal(t, "Alex", picked[1].Name)

	_, err = selectPrompts([]string{"Bob"})
	assert.Error(t, err)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"upload", "teacher", "delay", "rate-limit-delay"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
