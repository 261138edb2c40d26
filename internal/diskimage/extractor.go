// Package diskimage finds city saves and tile sets inside CD-ROM and floppy
// images.
package diskimage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/sirupsen/logrus"
)

// Extensions of files worth extracting
var extensions = map[string]bool{
	".sc2": true,
	".scn": true,
	".mif": true,
}

// Match reports whether name looks like a city save, scenario or tile set.
func Match(name string) bool {
	return extensions[strings.ToLower(path.Ext(cleanName(name)))]
}

// cleanName drops the ISO9660 version suffix (";1") and a trailing dot.
func cleanName(name string) string {
	if i := strings.LastIndexByte(name, ';'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSuffix(name, ".")
}

// Image is an opened disk image.
type Image struct {
	path string
	fs   filesystem.FileSystem
	log  logrus.FieldLogger
}

// Open opens the first filesystem of the image read-only.
func Open(imgPath string, log logrus.FieldLogger) (*Image, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	d, err := diskfs.Open(imgPath, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}

	// Partition 0 is the whole disk, which is what unpartitioned CD and
	// floppy images use.
	fs, err := d.GetFilesystem(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read filesystem of %s: %w", imgPath, err)
	}

	log.WithFields(logrus.Fields{"image": imgPath, "type": fs.Type()}).Debug("image opened")
	return &Image{path: imgPath, fs: fs, log: log}, nil
}

// List returns the paths of all matching files, sorted.
func (img *Image) List() ([]string, error) {
	var found []string
	if err := img.walk("/", &found); err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

func (img *Image) walk(dir string, found *[]string) error {
	entries, err := img.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." || name == "" {
			continue
		}
		p := path.Join(dir, name)
		if e.IsDir() {
			if err := img.walk(p, found); err != nil {
				return err
			}
			continue
		}
		if Match(name) {
			*found = append(*found, p)
		}
	}
	return nil
}

// Extract copies every matching file into outputDir and returns the written
// paths.
func (img *Image) Extract(outputDir string) ([]string, error) {
	files, err := img.List()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no city files found in %s", img.path)
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var extracted []string
	for _, p := range files {
		out, err := img.extractOne(p, outputDir)
		if err != nil {
			return nil, err
		}
		extracted = append(extracted, out)
	}

	return extracted, nil
}

func (img *Image) extractOne(p, outputDir string) (string, error) {
	src, err := img.fs.OpenFile(p, os.O_RDONLY)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer src.Close()

	outputPath := filepath.Join(outputDir, cleanName(path.Base(p)))
	dst, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to extract %s: %w", p, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	img.log.WithFields(logrus.Fields{"file": p, "bytes": n}).Info("extracted")
	return outputPath, nil
}
