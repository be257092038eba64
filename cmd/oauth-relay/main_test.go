package main

import (
	"bytes"
	"testing"

	"github.com/brizzai/oauth-relay/internal/config"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) string {
	t.Helper()
	pterm.DisableStyling()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		pterm.EnableStyling()
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("version", "false")
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRootCmd_Version(t *testing.T) {
	for _, flag := range []string{"--version", "-v"} {
		t.Run(flag, func(t *testing.T) {
			out := executeRoot(t, flag)
			assert.Contains(t, out, config.GetVersionInfo())
			assert.NotContains(t, out, "Usage:")
		})
	}
}

func TestRootCmd_HelpWithoutFlags(t *testing.T) {
	out := executeRoot(t)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "relay")
	assert.Contains(t, out, "profile")
	assert.NotContains(t, out, config.GetVersionInfo())
}
