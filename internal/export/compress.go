package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Compression names a stream compression for exported documents.
type Compression string

const (
	CompressNone Compression = "none"
	CompressZstd Compression = "zstd"
	CompressGzip Compression = "gzip"
	CompressLZ4  Compression = "lz4"
	CompressXZ   Compression = "xz"
)

// DefaultCompression is used when nothing else is configured.
const DefaultCompression = CompressZstd

// Compressions lists the supported compressions.
var Compressions = []Compression{CompressNone, CompressZstd, CompressGzip, CompressLZ4, CompressXZ}

// ParseCompression maps a user supplied name to a Compression. The empty
// string selects the default.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return DefaultCompression, nil
	case "none", "off", "json":
		return CompressNone, nil
	case "zstd", "zst":
		return CompressZstd, nil
	case "gzip", "gz":
		return CompressGzip, nil
	case "lz4":
		return CompressLZ4, nil
	case "xz":
		return CompressXZ, nil
	}
	return "", fmt.Errorf("unknown compression: %s", name)
}

// Ext returns the file name extension of documents written with c.
func (c Compression) Ext() string {
	switch c {
	case CompressZstd:
		return ".json.zst"
	case CompressGzip:
		return ".json.gz"
	case CompressLZ4:
		return ".json.lz4"
	case CompressXZ:
		return ".json.xz"
	default:
		return ".json"
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w in a compressor. Close must be called to flush the
// stream; it does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressNone:
		return nopWriteCloser{w}, nil
	case CompressZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return enc, nil
	case CompressGzip:
		return gzip.NewWriter(w), nil
	case CompressLZ4:
		return lz4.NewWriter(w), nil
	case CompressXZ:
		zw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("xz encoder: %w", err)
		}
		return zw, nil
	}
	return nil, fmt.Errorf("unknown compression: %s", c)
}

// NewReader wraps r in the matching decompressor.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressNone:
		return io.NopCloser(r), nil
	case CompressZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip decoder: %w", err)
		}
		return zr, nil
	case CompressLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressXZ:
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("xz decoder: %w", err)
		}
		return io.NopCloser(zr), nil
	}
	return nil, fmt.Errorf("unknown compression: %s", c)
}
