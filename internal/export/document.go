// Package export turns decoded cities into a stable nested document and
// writes it as (optionally compressed) JSON.
package export

import (
	"encoding/hex"
	"os"
	"sort"
	"time"

	"github.com/djherbis/times"
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/google/uuid"
)

// FormatVersion is bumped whenever the document key set changes.
const FormatVersion = 1

// Source describes the file a document was decoded from.
type Source struct {
	Path      string
	Size      int64
	ModTime   time.Time
	BirthTime time.Time // Zero when the filesystem does not record it
}

// SourceFromFile stats path for the document's source block.
func SourceFromFile(path string) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	ts, err := times.Stat(path)
	if err != nil {
		return Source{}, err
	}

	src := Source{Path: path, Size: fi.Size(), ModTime: ts.ModTime()}
	if ts.HasBirthTime() {
		src.BirthTime = ts.BirthTime()
	}
	return src, nil
}

func (s Source) document() map[string]interface{} {
	doc := map[string]interface{}{
		"file": s.Path,
		"size": s.Size,
	}
	if !s.ModTime.IsZero() {
		doc["modified"] = s.ModTime.UTC().Format(time.RFC3339)
	}
	if !s.BirthTime.IsZero() {
		doc["created"] = s.BirthTime.UTC().Format(time.RFC3339)
	}
	return doc
}

func header(kind string, src Source) map[string]interface{} {
	return map[string]interface{}{
		"format_version": FormatVersion,
		"export_id":      uuid.New().String(),
		"kind":           kind,
		"source":         src.document(),
	}
}

// CityDocument builds the export document of a decoded city. Every key is
// always present; absent optional parts are nil.
func CityDocument(city *model.City, src Source) map[string]interface{} {
	doc := header("city", src)

	doc["city"] = map[string]interface{}{
		"name": city.Name,
		"size": city.Size,
		"mac":  city.Mac,
	}
	doc["tiles"] = tilesDoc(city)
	doc["buildings"] = buildingsDoc(city.Buildings)
	doc["networks"] = buildingsDoc(city.Networks)
	doc["groundcover"] = buildingsDoc(city.Groundcover)

	overlays := make(map[string]interface{})
	for _, g := range city.Grids() {
		if g == nil {
			continue
		}
		overlays[g.Name] = gridDoc(g)
	}
	doc["overlays"] = overlays

	doc["attributes"] = city.Attributes
	doc["simulator_settings"] = city.SimulatorSettings
	doc["game_settings"] = city.GameSettings
	doc["inventions"] = city.Inventions
	doc["population_graphs"] = city.PopulationGraphs
	doc["industry_graphs"] = city.IndustryGraphs
	doc["tile_counts"] = city.TileCounts
	doc["neighbours"] = neighboursDoc(city.Neighbours)
	doc["budget"] = budgetDoc(city.Budget)
	doc["graphs"] = graphsDoc(city.Graphs)
	doc["scenario"] = scenarioDoc(city.Scenario)
	doc["labels"] = city.Labels
	doc["micro_sims"] = microSimDoc(city.MicroSim)
	doc["things"] = thingsDoc(city.Things)
	doc["unknown_chunks"] = chunksDoc(city.Unknown)
	doc["anomalies"] = anomaliesDoc(city.Anomalies)

	return doc
}

// TileSetDocument builds the export document of a tile set.
func TileSetDocument(ts *model.TileSet, src Source) map[string]interface{} {
	doc := header("tileset", src)
	doc["tileset"] = map[string]interface{}{
		"name": ts.Name,
		"mac":  ts.Mac,
	}
	doc["chunks"] = chunksDoc(ts.Chunks)

	text := make([]string, len(ts.Text))
	for i, t := range ts.Text {
		text[i] = hex.EncodeToString(t)
	}
	doc["text"] = text
	return doc
}

func tilesDoc(city *model.City) []map[string]interface{} {
	out := make([]map[string]interface{}, len(city.Tiles))
	for i := range city.Tiles {
		t := &city.Tiles[i]
		entry := map[string]interface{}{
			"row":              t.Row,
			"col":              t.Col,
			"altitude":         t.Altitude,
			"altitude_tunnel":  t.AltitudeTunnel,
			"altitude_unknown": t.AltitudeUnknown,
			"is_water":         t.IsWater,
			"terrain":          t.Terrain,
			"zone":             t.Zone,
			"zone_corners":     t.ZoneCorners,
			"underground":      t.Underground,
			"text_pointer":     t.TextPointer,
			"bit_flags":        t.Flags.String(),
			"building_id":      t.BuildingID,
		}
		if text, ok := t.Text(); ok {
			entry["text"] = text
		}
		out[i] = entry
	}
	return out
}

// buildingsDoc lists each building of a collection once with the tiles it
// covers, ordered by origin.
func buildingsDoc(m map[model.Coord]*model.Building) []map[string]interface{} {
	tiles := make(map[*model.Building][]model.Coord)
	for coord, b := range m {
		tiles[b] = append(tiles[b], coord)
	}

	list := make([]*model.Building, 0, len(tiles))
	for b := range tiles {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		return lessCoord(list[i].Origin, list[j].Origin)
	})

	out := make([]map[string]interface{}, len(list))
	for i, b := range list {
		coords := tiles[b]
		sort.Slice(coords, func(i, j int) bool { return lessCoord(coords[i], coords[j]) })

		covered := make([][2]int, len(coords))
		for k, c := range coords {
			covered[k] = [2]int{c.Row, c.Col}
		}

		out[i] = map[string]interface{}{
			"id":     b.ID,
			"name":   b.Name,
			"size":   b.Size,
			"class":  b.Class.String(),
			"origin": [2]int{b.Origin.Row, b.Origin.Col},
			"tiles":  covered,
		}
	}
	return out
}

func lessCoord(a, b model.Coord) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

func gridDoc(g *model.ScaledGrid) map[string]interface{} {
	rows := make([][]int, g.Size)
	for r, row := range g.Rows() {
		rows[r] = make([]int, len(row))
		for c, v := range row {
			rows[r][c] = int(v)
		}
	}
	return map[string]interface{}{
		"size":   g.Size,
		"factor": g.Factor,
		"data":   rows,
	}
}

func neighboursDoc(ns [4]model.Neighbour) []map[string]interface{} {
	out := make([]map[string]interface{}, len(ns))
	for i, n := range ns {
		out[i] = map[string]interface{}{
			"name":       n.Name,
			"population": n.Population,
			"value":      n.Value,
			"fame":       n.Fame,
		}
	}
	return out
}

func budgetDoc(b *model.Budget) map[string]interface{} {
	if b == nil {
		return nil
	}

	items := make(map[string]interface{}, len(b.Items))
	for _, it := range b.Items {
		months := make([]map[string]interface{}, len(it.Months))
		for m, mb := range it.Months {
			months[m] = map[string]interface{}{
				"count":   mb.Count,
				"funding": mb.Funding,
			}
		}
		items[it.Name] = map[string]interface{}{
			"current_count":   it.CurrentCount,
			"current_funding": it.CurrentFunding,
			"unknown":         it.Unknown,
			"months":          months,
		}
	}

	return map[string]interface{}{
		"ordinances": b.Ordinances[:],
		"bonds":      b.Bonds[:],
		"items":      items,
	}
}

func graphsDoc(graphs []model.Graph) map[string]interface{} {
	out := make(map[string]interface{}, len(graphs))
	for _, g := range graphs {
		out[g.Name] = map[string]interface{}{
			"year":    g.Year[:],
			"decade":  g.Decade[:],
			"century": g.Century[:],
		}
	}
	return out
}

func scenarioDoc(s *model.Scenario) map[string]interface{} {
	if s == nil {
		return nil
	}

	g := s.Goals
	doc := map[string]interface{}{
		"short_text": s.ShortText,
		"long_text":  s.LongText,
		"goals": map[string]interface{}{
			"disaster_type":     g.DisasterType,
			"disaster_x":        g.DisasterX,
			"disaster_y":        g.DisasterY,
			"time_limit_months": g.TimeLimitMonths,
			"city_size_goal":    g.CitySize,
			"residential_goal":  g.Residential,
			"commercial_goal":   g.Commercial,
			"industrial_goal":   g.Industrial,
			"cash_flow_goal":    g.CashFlow,
			"land_value_goal":   g.LandValue,
			"pollution_limit":   g.PollutionLimit,
			"traffic_limit":     g.TrafficLimit,
			"crime_limit":       g.CrimeLimit,
			"build_item_one":    g.BuildItemOne,
			"build_item_two":    g.BuildItemTwo,
			"item_one_tiles":    g.ItemOneTiles,
			"item_two_tiles":    g.ItemTwoTiles,
		},
		"picture": nil,
	}

	if p := s.Picture; p != nil {
		rows := make([]string, len(p.Rows))
		for i, r := range p.Rows {
			rows[i] = hex.EncodeToString(r)
		}
		doc["picture"] = map[string]interface{}{
			"width":  p.Width,
			"height": p.Height,
			"rows":   rows,
		}
	}
	return doc
}

func microSimDoc(ms []model.MicroSim) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = hex.EncodeToString(m.Data[:])
	}
	return out
}

func thingsDoc(things []model.Thing) []map[string]interface{} {
	out := make([]map[string]interface{}, len(things))
	for i, th := range things {
		out[i] = map[string]interface{}{
			"id":         th.ID,
			"rotation_1": th.Rotation1,
			"rotation_2": th.Rotation2,
			"x":          th.X,
			"y":          th.Y,
			"data":       hex.EncodeToString(th.Data[:]),
		}
	}
	return out
}

func chunksDoc(chunks map[string][]byte) map[string]string {
	out := make(map[string]string, len(chunks))
	for id, data := range chunks {
		out[id] = hex.EncodeToString(data)
	}
	return out
}

func anomaliesDoc(as []model.Anomaly) []map[string]interface{} {
	out := make([]map[string]interface{}, len(as))
	for i, a := range as {
		entry := map[string]interface{}{
			"chunk":   a.Chunk,
			"message": a.Message,
		}
		if a.Row >= 0 {
			entry["row"] = a.Row
			entry["col"] = a.Col
		}
		out[i] = entry
	}
	return out
}
