package batch

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Archive collects encoded composites. Nothing is emitted before Close, so
// an archive that is never closed leaves no trace.
type Archive interface {
	Add(name string, data []byte) error
	Close() error
}

// ZipArchive buffers entries in memory and writes a zip on Close.
// Adding a name twice keeps the first position and the last data.
type ZipArchive struct {
	open  func() (io.Writer, func(ok bool) error, error)
	names []string
	data  map[string][]byte
}

// NewZipArchive writes the zip to w on Close. w is not closed.
func NewZipArchive(w io.Writer) *ZipArchive {
	return &ZipArchive{
		open: func() (io.Writer, func(bool) error, error) {
			return w, func(bool) error { return nil }, nil
		},
		data: make(map[string][]byte),
	}
}

// NewZipFile writes the zip to path on Close, through a temporary file in
// the same directory so a failed write never leaves a truncated archive.
func NewZipFile(path string) *ZipArchive {
	return &ZipArchive{
		open: func() (io.Writer, func(bool) error, error) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, nil, err
			}
			f, err := os.CreateTemp(filepath.Dir(path), ".composites-*.zip")
			if err != nil {
				return nil, nil, err
			}
			finish := func(ok bool) error {
				if err := f.Close(); err != nil || !ok {
					os.Remove(f.Name())
					return err
				}
				if err := os.Rename(f.Name(), path); err != nil {
					os.Remove(f.Name())
					return err
				}
				return nil
			}
			return f, finish, nil
		},
		data: make(map[string][]byte),
	}
}

func (z *ZipArchive) Add(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("batch: archive entry without a name")
	}
	if _, ok := z.data[name]; !ok {
		z.names = append(z.names, name)
	}
	z.data[name] = data
	return nil
}

// Names returns the entry names in archive order.
func (z *ZipArchive) Names() []string {
	out := make([]string, len(z.names))
	copy(out, z.names)
	return out
}

// Len returns the number of distinct entries.
func (z *ZipArchive) Len() int {
	return len(z.names)
}

func (z *ZipArchive) Close() error {
	w, finish, err := z.open()
	if err != nil {
		return fmt.Errorf("batch: archive: %w", err)
	}
	if err := z.write(w); err != nil {
		finish(false)
		return fmt.Errorf("batch: archive: %w", err)
	}
	if err := finish(true); err != nil {
		return fmt.Errorf("batch: archive: %w", err)
	}
	return nil
}

func (z *ZipArchive) write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range z.names {
		// Encoded images are already compressed.
		method := zip.Store
		if strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".png") {
			method = zip.Deflate
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		if err != nil {
			return err
		}
		if _, err := fw.Write(z.data[name]); err != nil {
			return err
		}
	}
	return zw.Close()
}
