package binary

import (
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/dyuri/sc2conv/internal/scalar"
)

// Each XGRP graph is 12 monthly, 20 decade and 20 century values.
const graphLen = (12 + 20 + 20) * 4

// readGraphs decodes the sixteen history graphs stored back to back.
func readGraphs(xgrp []byte) ([]model.Graph, error) {
	graphs := make([]model.Graph, 0, len(model.GraphNames))

	for i, name := range model.GraphNames {
		raw, err := scalar.Slice(xgrp, i*graphLen, graphLen)
		if err != nil {
			return nil, sc2err.WithChunk(err, "XGRP")
		}
		values, err := scalar.Int32s(raw)
		if err != nil {
			return nil, sc2err.WithChunk(err, "XGRP")
		}

		g := model.Graph{Name: name}
		copy(g.Year[:], values[0:12])
		copy(g.Decade[:], values[12:32])
		copy(g.Century[:], values[32:52])
		graphs = append(graphs, g)
	}

	return graphs, nil
}
