package binary

import (
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/scalar"
)

const (
	ordinancesOffset = 0x0FA0
	ordinanceCount   = 20
	ordinanceMask    = 1<<ordinanceCount - 1
	bondsOffset      = 0x0610
	bondCount        = 50
	subBudgetOffset  = 0x077C
	subBudgetStride  = 0x6C
	subBudgetFields  = 27
)

// readBudget decodes the budget from its fixed MISC offsets.
func (r *Reader) readBudget(misc []byte) (*model.Budget, error) {
	b := &model.Budget{}

	// Offset 0x0FA0: ordinance flags in the low 20 bits, flag 0 at bit 19
	word, err := scalar.Uint32(misc, ordinancesOffset)
	if err != nil {
		return nil, err
	}
	if word&^ordinanceMask != 0 {
		r.anomaly("MISC", -1, -1, "ordinance word 0x%08x has bits above bit %d", word, ordinanceCount-1)
	}
	bits := scalar.BitString(word&ordinanceMask, ordinanceCount)
	for i := 0; i < ordinanceCount; i++ {
		b.Ordinances[i] = bits[i] == '1'
	}

	// Offset 0x0610: bonds
	bonds, err := int32sAt(misc, bondsOffset, bondCount)
	if err != nil {
		return nil, err
	}
	copy(b.Bonds[:], bonds)

	b.Items = make([]model.SubBudget, len(model.BudgetItemNames))
	for i, name := range model.BudgetItemNames {
		fields, err := int32sAt(misc, subBudgetOffset+i*subBudgetStride, subBudgetFields)
		if err != nil {
			return nil, err
		}

		item := model.SubBudget{
			Name:           name,
			CurrentCount:   fields[0],
			CurrentFunding: fields[1],
			Unknown:        fields[2],
		}
		for m := range item.Months {
			item.Months[m] = model.MonthBudget{
				Count:   fields[3+m*2],
				Funding: fields[4+m*2],
			}
		}
		b.Items[i] = item
	}

	return b, nil
}
