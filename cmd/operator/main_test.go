package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"board", "orphans", "export", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	export, _, err := root.Find([]string{"export"})
	require.NoError(t, err)
	assert.NotNil(t, export.Flags().Lookup("bucket"))
	assert.NotNil(t, export.Flags().Lookup("key"))
}

func TestCommandsRequireDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	for _, name := range []string{"board", "orphans", "migrate"} {
		t.Run(name, func(t *testing.T) {
			root := newRootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{name})

			err := root.ExecuteContext(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DATABASE_URL is required")
			assert.Empty(t, out.String())
		})
	}
}
