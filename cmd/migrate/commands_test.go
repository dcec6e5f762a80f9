package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"up", "down", "version", "force", "seed"} {
		assert.Contains(t, names, want)
	}

	steps := upCmd.Flags().Lookup("steps")
	require.NotNil(t, steps)
	assert.Equal(t, "0", steps.DefValue)
}

func TestForceCommand_RejectsBadVersion(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"force", "latest"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid version "latest"`)
}
