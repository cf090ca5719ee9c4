package collectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named string

func (n named) Name() string { return string(n) }

func (n named) Read(context.Context) (Reading, error) { return Reading{}, nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Collectors())

	r.Register(named("cpu"))
	r.Register(named("fan"))

	assert.Len(t, r.Collectors(), 2)
	assert.Equal(t, "fan", r.GetByName("fan").Name())
	assert.Nil(t, r.GetByName("disk"))
}

func TestReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "value")
	require.NoError(t, os.WriteFile(path, []byte("42\n"), 0644))

	data, err := ReadAll(OpenFile, path)
	require.NoError(t, err)
	assert.Equal(t, "42\n", string(data))

	_, err = ReadAll(OpenFile, path+".missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
