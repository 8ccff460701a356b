package snapshot_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bindinfo/pkg/snapshot"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)

		return err
	}
}

func TestIsCompressed(t *testing.T) {
	t.Parallel()

	assert.True(t, snapshot.IsCompressed("model.json.lz4"))
	assert.True(t, snapshot.IsCompressed("MODEL.JSON.LZ4"))
	assert.False(t, snapshot.IsCompressed("model.json"))
}

func TestWriteRead_Plain(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, snapshot.Write(path, writeString("{}\n")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(raw))

	data, err := snapshot.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestWriteRead_Compressed(t *testing.T) {
	t.Parallel()

	content := strings.Repeat(`{"Lav_ERROR_NONE": 0}`+"\n", 200)
	path := filepath.Join(t.TempDir(), "model.json.lz4")

	require.NoError(t, snapshot.Write(path, writeString(content)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Less(t, len(raw), len(content))

	data, err := snapshot.Read(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := snapshot.Read(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	corrupt := filepath.Join(dir, "corrupt.json.lz4")
	require.NoError(t, os.WriteFile(corrupt, []byte("not lz4"), 0o600))

	_, err = snapshot.Read(corrupt)
	require.ErrorContains(t, err, "decompress")
}

func TestWrite_PropagatesWriterError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "model.json")

	err := snapshot.Write(path, func(io.Writer) error { return io.ErrShortWrite })
	require.ErrorIs(t, err, io.ErrShortWrite)

	err = snapshot.Write(filepath.Join(t.TempDir(), "nodir", "model.json"), writeString("{}"))
	require.ErrorContains(t, err, "create snapshot")
}
