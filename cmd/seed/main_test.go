package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()

	reset := cmd.Flags().Lookup("reset")
	require.NotNil(t, reset)
	assert.Equal(t, "false", reset.DefValue)

	require.NoError(t, cmd.ParseFlags([]string{"--reset"}))
	value, err := cmd.Flags().GetBool("reset")
	require.NoError(t, err)
	assert.True(t, value)
}

func TestRootCmdRejectsArguments(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})

	err := cmd.Execute()
	assert.Error(t, err)
}
