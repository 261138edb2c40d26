package binary

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dyuri/sc2conv/internal/iff"
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/rle"
	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/dyuri/sc2conv/internal/scalar"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// CitySize is the edge length of every city map in tiles.
const CitySize = 128

const maxNameLen = 31

// Chunks every city save must carry.
var requiredChunks = []string{"ALTM", "XTER", "XBLD", "XZON", "XUND", "XTXT", "XBIT", "MISC"}

// Reader handles decoding of city saves and tile sets
type Reader struct {
	r        io.ReaderAt
	size     int64
	decoder  *encoding.Decoder // Text decoder for labels and scenario text
	charset  string            // Explicit charset, "" picks by platform
	fileName string            // Used for the fallback city name
	log      logrus.FieldLogger
	header   *iff.Header

	anomalies []model.Anomaly
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger routes decode progress and anomalies to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Reader) {
		if l != nil {
			r.log = l
		}
	}
}

// WithFileName sets the source file name. It names cities without a CNAM chunk.
func WithFileName(name string) Option {
	return func(r *Reader) {
		r.fileName = name
	}
}

// WithCharset overrides the platform default text encoding.
func WithCharset(name string) Option {
	return func(r *Reader) {
		r.charset = name
	}
}

// NewReader creates a new reader over size bytes of r
func NewReader(r io.ReaderAt, size int64, opts ...Option) *Reader {
	rd := &Reader{
		r:    r,
		size: size,
		log:  discardLogger(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Header returns the container header once Parse or ParseTileSet has run.
func (r *Reader) Header() *iff.Header {
	return r.header
}

// Parse decodes a city save and returns the internal model
func (r *Reader) Parse() (*model.City, error) {
	chunks, err := r.ReadChunks(iff.KindCity)
	if err != nil {
		return nil, err
	}

	for _, id := range requiredChunks {
		if !chunks.Has(id) {
			return nil, sc2err.Format(id, -1, "required chunk missing")
		}
	}

	city := model.NewCity(CitySize)
	city.Mac = r.header.Mac
	city.Name = r.cityName(chunks.Get("CNAM"))
	r.log.WithField("city", city.Name).Info("decoding city")

	r.log.Info("parsing overlays")
	if err := r.readScaledGrids(city, chunks); err != nil {
		return nil, fmt.Errorf("read overlays: %w", err)
	}

	r.log.Info("parsing tiles")
	if err := r.readTiles(city, chunks); err != nil {
		return nil, fmt.Errorf("read tiles: %w", err)
	}

	r.log.Info("parsing parameter block")
	if err := r.readMisc(city, chunks.Get("MISC")); err != nil {
		return nil, fmt.Errorf("read parameter block: %w", err)
	}

	r.log.Info("resolving building footprints")
	if err := r.resolveFootprints(city); err != nil {
		return nil, fmt.Errorf("resolve footprints: %w", err)
	}

	r.log.Info("parsing labels, micro-sims and things")
	city.Labels = r.readLabels(chunks.Get("XLAB"))
	city.MicroSim = r.readMicroSim(chunks.Get("XMIC"))
	city.Things = r.readThings(chunks.Get("XTHG"))

	if chunks.Has("XGRP") {
		r.log.Info("parsing graphs")
		graphs, err := readGraphs(chunks.Get("XGRP"))
		if err != nil {
			return nil, fmt.Errorf("read graphs: %w", err)
		}
		city.Graphs = graphs
	}

	if hasScenario(chunks) {
		r.log.Info("parsing scenario")
		scen, err := r.readScenario(chunks)
		if err != nil {
			return nil, fmt.Errorf("read scenario: %w", err)
		}
		city.Scenario = scen
	}

	for id, data := range chunks.Unknown {
		r.log.WithField("chunk", id).Debug("keeping unrecognised chunk")
		city.Unknown[id] = data
	}

	overlay := city.Overlay()
	for i := range city.Tiles {
		city.Tiles[i].SetOverlay(overlay)
	}

	city.Anomalies = r.anomalies
	r.log.WithFields(logrus.Fields{
		"buildings": len(city.Buildings),
		"networks":  len(city.Networks),
		"anomalies": len(city.Anomalies),
	}).Info("city decoded")

	return city, nil
}

// ParseTileSet decodes a .mif tile set. Only the container is interpreted.
func (r *Reader) ParseTileSet() (*model.TileSet, error) {
	chunks, err := r.ReadChunks(iff.KindTileSet)
	if err != nil {
		return nil, err
	}

	ts := model.NewTileSet()
	ts.Mac = r.header.Mac
	ts.Text = chunks.Text
	for _, id := range chunks.IDs() {
		ts.Chunks[id] = chunks.Get(id)
	}
	for id, data := range chunks.Unknown {
		ts.Chunks[id] = data
	}
	if chunks.Has("CNAM") {
		ts.Name = r.cityName(chunks.Get("CNAM"))
	} else {
		ts.Name = r.fallbackName()
	}

	return ts, nil
}

// ReadChunks reads the whole input, validates the container and returns the
// decompressed chunks.
func (r *Reader) ReadChunks(kind iff.Kind) (*iff.Chunks, error) {
	data := make([]byte, r.size)
	n, err := r.r.ReadAt(data, 0)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data = data[:n]

	hdr, raw, err := iff.Parse(data, kind)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	r.header = hdr
	r.setupDecoder()
	for _, bad := range raw.BadIDs {
		r.anomaly(bad.ID, -1, -1, "chunk id %q at offset 0x%x is not printable ASCII, kept as unknown", bad.ID, bad.Offset)
	}

	r.log.WithFields(logrus.Fields{
		"kind":   kind.String(),
		"mac":    hdr.Mac,
		"chunks": len(raw.IDs()) + len(raw.Text) + len(raw.Unknown),
	}).Debug("container parsed")

	chunks, err := rle.DecompressChunks(raw, kind)
	if err != nil {
		return nil, fmt.Errorf("decompress chunks: %w", err)
	}
	for _, id := range chunks.IDs() {
		r.log.WithFields(logrus.Fields{"chunk": id, "size": len(chunks.Get(id))}).Debug("chunk decompressed")
	}

	return chunks, nil
}

// setupDecoder picks the text decoder: explicit charset first, then Mac Roman
// for Mac files and Windows-1252 otherwise.
func (r *Reader) setupDecoder() {
	name := r.charset
	if name == "" {
		if r.header != nil && r.header.Mac {
			name = "macintosh"
		} else {
			name = "windows-1252"
		}
	}

	switch strings.ToLower(name) {
	case "windows-1252", "cp1252", "1252":
		r.decoder = charmap.Windows1252.NewDecoder()
	case "windows-1250", "cp1250", "1250":
		r.decoder = charmap.Windows1250.NewDecoder()
	case "macintosh", "mac", "macroman", "mac-roman":
		r.decoder = charmap.Macintosh.NewDecoder()
	case "iso-8859-1", "latin1":
		r.decoder = charmap.ISO8859_1.NewDecoder()
	case "utf-8", "utf8", "none":
		r.decoder = nil // Use bytes directly
	default:
		r.log.WithField("charset", name).Warn("unknown charset, using windows-1252")
		r.decoder = charmap.Windows1252.NewDecoder()
	}
}

// decodeString decodes a byte slice using the configured decoder
func (r *Reader) decodeString(data []byte) string {
	if r.decoder == nil {
		return string(data)
	}
	decoded, err := r.decoder.Bytes(data)
	if err != nil {
		return string(data) // Fall back to raw string on error
	}
	return string(decoded)
}

// cityName reads CNAM (length byte, then up to 31 zero-padded characters).
// Falls back to the upper-cased file name without extension.
func (r *Reader) cityName(cnam []byte) string {
	var name string
	if len(cnam) > 1 {
		end := len(cnam)
		if end > maxNameLen+1 {
			end = maxNameLen + 1
		}
		name = r.decodeString(scalar.UntilZero(cnam[1:end]))
	}
	if name == "" {
		name = r.fallbackName()
	}
	return truncate(name, maxNameLen)
}

func (r *Reader) fallbackName() string {
	base := filepath.Base(r.fileName)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return truncate(strings.ToUpper(base), maxNameLen)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

// anomaly logs a non-fatal structural problem and records it on the city.
func (r *Reader) anomaly(chunk string, row, col int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	entry := r.log.WithField("chunk", chunk)
	if row >= 0 {
		entry = entry.WithFields(logrus.Fields{"row": row, "col": col})
	}
	entry.Warn(msg)

	r.anomalies = append(r.anomalies, model.Anomaly{
		Chunk:   chunk,
		Row:     row,
		Col:     col,
		Message: msg,
	})
}
