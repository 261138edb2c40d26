package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/xattr"
)

// XattrName is the extended attribute that carries the city name on
// written documents.
const XattrName = "user.sc2conv.city"

// Options control how a document is written.
type Options struct {
	Compression Compression
	Pretty      bool // Indent the JSON
}

// Write encodes doc as JSON through the configured compressor.
func Write(w io.Writer, doc map[string]interface{}, opts Options) error {
	c := opts.Compression
	if c == "" {
		c = DefaultCompression
	}

	zw, err := NewWriter(w, c)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(zw)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(doc); err != nil {
		zw.Close()
		return fmt.Errorf("encode document: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush %s stream: %w", c, err)
	}
	return nil
}

// Read decodes a document written by Write.
func Read(r io.Reader, c Compression) (map[string]interface{}, error) {
	zr, err := NewReader(r, c)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var doc map[string]interface{}
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// OutputPath returns the document path for input inside dir. An empty dir
// places the document next to the input.
func OutputPath(input, dir string, c Compression) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+c.Ext())
}

// WriteFile writes doc to path.
func WriteFile(path string, doc map[string]interface{}, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := Write(f, doc, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// TagFile records the city name on path as an extended attribute.
func TagFile(path, name string) error {
	if err := xattr.Set(path, XattrName, []byte(name)); err != nil {
		return fmt.Errorf("set %s on %s: %w", XattrName, path, err)
	}
	return nil
}
