package components

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPartitions(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"/in/part-b.rdf", "/in/part-a.rdf", "/in/_SUCCESS", "/in/.part-a.rdf.crc", "/in/sub/part-c.rdf"} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("x"), 0644))
	}

	names, err := ListPartitions(fs, "/in")
	require.NoError(t, err)
	assert.Equal(t, []string{"/in/part-a.rdf", "/in/part-b.rdf"}, names)

	names, err = ListPartitions(fs, "/in/sub/part-c.rdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"/in/sub/part-c.rdf"}, names)

	_, err = ListPartitions(fs, "/nothing")
	assert.Error(t, err)
}

func TestForEachFragment(t *testing.T) {
	var fragments []string
	err := ForEachFragment(strings.NewReader("a\nb\r\n\nc"), func(f string) error {
		fragments = append(fragments, f)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a\n", "b\r\n", "\n", "c"}, fragments)
}

func TestForEachFragmentStopsOnError(t *testing.T) {
	stop := io.ErrShortWrite
	n := 0
	err := ForEachFragment(strings.NewReader("a\nb\nc\n"), func(f string) error {
		n++
		return stop
	})

	assert.Equal(t, stop, err)
	assert.Equal(t, 1, n)
}

func TestOpenPartition(t *testing.T) {
	content := "<rdf:RDF>\n</rdf:RDF>\n"
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/plain.rdf", []byte(content), 0644))

	var zbuf bytes.Buffer
	enc, err := zstd.NewWriter(&zbuf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, afero.WriteFile(fs, "/in/packed.rdf.zst", zbuf.Bytes(), 0644))

	var lbuf bytes.Buffer
	lw := lz4.NewWriter(&lbuf)
	_, err = lw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, lw.Close())
	require.NoError(t, afero.WriteFile(fs, "/in/packed.rdf.lz4", lbuf.Bytes(), 0644))

	for _, name := range []string{"/in/plain.rdf", "/in/packed.rdf.zst", "/in/packed.rdf.lz4"} {
		rc, err := OpenPartition(fs, name)
		require.NoError(t, err, name)
		data, err := io.ReadAll(rc)
		require.NoError(t, err, name)
		assert.NoError(t, rc.Close(), name)
		assert.Equal(t, content, string(data), name)
	}

	_, err = OpenPartition(fs, "/in/missing.rdf")
	assert.Error(t, err)
}
