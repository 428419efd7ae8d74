package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subghzlab/subscan-go/internal/conf"
)

func TestRootCommandWiring(t *testing.T) {
	settings := &conf.Settings{}
	rootCmd := RootCommand(settings)

	require.Equal(t, "subscan", rootCmd.Use)

	var names []string
	for _, sub := range rootCmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "file")
	assert.Contains(t, names, "directory")
	assert.Contains(t, names, "compare")
	assert.Contains(t, names, "watch")

	for _, flag := range []string{"debug", "threshold", "encoding", "data-length"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing flag %s", flag)
	}
}
