package binary

import (
	"github.com/dyuri/sc2conv/internal/model"
)

const (
	labelLen    = 25
	microSimLen = 8
	thingLen    = 12
)

// readLabels decodes XLAB: 25-byte records, a length byte then the text.
// Empty records keep their slot so XTXT pointers still line up.
func (r *Reader) readLabels(xlab []byte) []string {
	if len(xlab)%labelLen != 0 {
		r.anomaly("XLAB", -1, -1, "%d trailing bytes ignored", len(xlab)%labelLen)
	}

	labels := make([]string, 0, len(xlab)/labelLen)
	for off := 0; off+labelLen <= len(xlab); off += labelLen {
		rec := xlab[off : off+labelLen]
		n := int(rec[0])
		if n > labelLen-1 {
			n = labelLen - 1
		}
		labels = append(labels, r.decodeString(rec[1:1+n]))
	}

	r.log.WithField("labels", len(labels)).Debug("labels decoded")
	return labels
}

// readMicroSim keeps XMIC as opaque 8-byte records.
func (r *Reader) readMicroSim(xmic []byte) []model.MicroSim {
	if len(xmic)%microSimLen != 0 {
		r.anomaly("XMIC", -1, -1, "%d trailing bytes ignored", len(xmic)%microSimLen)
	}

	out := make([]model.MicroSim, 0, len(xmic)/microSimLen)
	for off := 0; off+microSimLen <= len(xmic); off += microSimLen {
		var m model.MicroSim
		copy(m.Data[:], xmic[off:off+microSimLen])
		out = append(out, m)
	}
	return out
}

// readThings decodes XTHG 12-byte records.
func (r *Reader) readThings(xthg []byte) []model.Thing {
	if len(xthg)%thingLen != 0 {
		r.anomaly("XTHG", -1, -1, "%d trailing bytes ignored", len(xthg)%thingLen)
	}

	out := make([]model.Thing, 0, len(xthg)/thingLen)
	for off := 0; off+thingLen <= len(xthg); off += thingLen {
		rec := xthg[off : off+thingLen]
		th := model.Thing{
			ID:        rec[0],
			Rotation1: rec[1],
			Rotation2: rec[2],
			X:         rec[3],
			Y:         rec[4],
		}
		copy(th.Data[:], rec[5:12])
		out = append(out, th)
	}
	return out
}
