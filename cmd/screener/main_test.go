package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	cmd := newCommand()
	var names []string
	for _, c := range cmd.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"fetch", "analyze", "screen", "plot", "export", "scrips", "serve"}, names)
}

func TestReadIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("500325\n\n  532540 extra\nnone\nid=500209\n"), 0o644))
	ids, err := readIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []int{500325, 532540, 500209}, ids)
}
