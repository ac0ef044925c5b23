package components

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	str "strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/afero"
)

// ListPartitions expands an input location into partition file names. A file
// is a partition of its own; a directory gives its regular files in name
// order, skipping names starting with "." or "_".
func ListPartitions(fs afero.Fs, path string) ([]string, error) {
	fi, err := fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}
	infos, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() || str.HasPrefix(info.Name(), ".") || str.HasPrefix(info.Name(), "_") {
			continue
		}
		names = append(names, filepath.Join(path, info.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// OpenPartition opens a partition on fs. Files ending in .zst or .lz4 are
// decompressed on the fly.
func OpenPartition(fs afero.Fs, name string) (io.ReadCloser, error) {
	fh, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	switch filepath.Ext(name) {
	case ".zst":
		dec, err := zstd.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("open zstd partition %s: %w", name, err)
		}
		return &partitionReader{Reader: dec, closeFn: func() error {
			dec.Close()
			return fh.Close()
		}}, nil
	case ".lz4":
		return &partitionReader{Reader: lz4.NewReader(fh), closeFn: fh.Close}, nil
	}
	return fh, nil
}

type partitionReader struct {
	io.Reader
	closeFn func() error
}

func (r *partitionReader) Close() error {
	return r.closeFn()
}

// ForEachFragment calls fn for every line of r, in order, with its line
// terminator kept so that concatenated fragments reproduce the input exactly.
// The last line is passed on even when it has no terminator.
func ForEachFragment(r io.Reader, fn func(fragment string) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
