// Package loader reads the class file handed to lockcov, transparently
// decompressing lz4 frames and refusing inputs that are obviously not
// compiled classes.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pierrec/lz4/v4"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/lockcov/pkg/safeconv"
)

// Sentinel load errors.
var (
	ErrTooLarge    = errors.New("input exceeds size limit")
	ErrSourceFile  = errors.New("input is a source file, not a compiled class")
	ErrEmptyInput  = errors.New("input is empty")
	ErrInvalidSize = errors.New("size limit must be positive")
	ErrNotLZ4      = errors.New("missing lz4 frame header")
)

const lz4Extension = ".lz4"

var (
	classMagic = []byte{0xCA, 0xFE, 0xBA, 0xBE}
	// lz4FrameMagic is 0x184D2204 in little-endian order.
	lz4FrameMagic = []byte{0x04, 0x22, 0x4D, 0x18}
)

// Input is a loaded class file.
type Input struct {
	Path string
	Data []byte

	// DiskSize is the size of the file as stored, before decompression.
	DiskSize   int64
	Compressed bool
}

// Load reads the class file at path. Files with an lz4 frame header are
// decompressed; maxSize bounds the decompressed size.
func Load(path string, maxSize int64) (*Input, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, maxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	in, err := Read(f, maxSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	in.Path = path
	in.DiskSize = info.Size()

	if !in.Compressed && strings.EqualFold(filepath.Ext(path), lz4Extension) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotLZ4)
	}

	err = checkNotSource(path, in.Data)
	if err != nil {
		return nil, err
	}

	return in, nil
}

// Read loads a class file from r, decompressing an lz4 frame if present.
func Read(r io.Reader, maxSize int64) (*Input, error) {
	raw, err := readLimited(r, maxSize)
	if err != nil {
		return nil, err
	}

	in := &Input{Data: raw, DiskSize: int64(len(raw))}

	if bytes.HasPrefix(raw, lz4FrameMagic) {
		in.Data, err = readLimited(lz4.NewReader(bytes.NewReader(raw)), maxSize)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}

		in.Compressed = true
	}

	if len(in.Data) == 0 {
		return nil, ErrEmptyInput
	}

	return in, nil
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: more than %s", ErrTooLarge, humanize.IBytes(safeconv.MustInt64ToUint64(maxSize)))
	}

	return data, nil
}

// checkNotSource rejects text that enry recognizes as a programming language,
// the usual mistake being Foo.java passed instead of Foo.class.
func checkNotSource(path string, data []byte) error {
	if bytes.HasPrefix(data, classMagic) || enry.IsBinary(data) {
		return nil
	}

	lang := enry.GetLanguage(filepath.Base(path), data)
	if lang == "" {
		return nil
	}

	return fmt.Errorf("%w: %s looks like %s", ErrSourceFile, path, lang)
}
