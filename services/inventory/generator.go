package inventory

import (
	"fmt"

	"fastpark/models"
	"fastpark/services/simulation"

	"gopkg.in/guregu/null.v4"
)

// Layout describes the garage used to seed a mock inventory.
type Layout struct {
	Levels          int
	Sections        []string
	Rates           []float64 // per section; the last rate repeats
	SpotsPerSection int
	AvailableChance float64
	ReservedChance  float64 // among available spots
	MinTimeLeft     int     // minutes
	TimeLeftSpread  int
}

// DefaultLayout is two levels of sections A, B and C with three spots each.
func DefaultLayout() Layout {
	return Layout{
		Levels:          2,
		Sections:        []string{"A", "B", "C"},
		Rates:           []float64{5, 6, 7},
		SpotsPerSection: 3,
		AvailableChance: 0.6,
		ReservedChance:  0.2,
		MinTimeLeft:     15,
		TimeLeftSpread:  60,
	}
}

// Generate builds spots for layout, drawing occupancy from src. Ids are
// unique across levels: L1-A1, L1-A2, ..., L2-C3.
func Generate(layout Layout, src simulation.Source) []models.Spot {
	spots := make([]models.Spot, 0, layout.Levels*len(layout.Sections)*layout.SpotsPerSection)
	for level := 1; level <= layout.Levels; level++ {
		for si, section := range layout.Sections {
			for n := 1; n <= layout.SpotsPerSection; n++ {
				available := src.Chance(layout.AvailableChance)
				reserved := available && src.Chance(layout.ReservedChance)

				spot := models.Spot{
					ID:          fmt.Sprintf("L%d-%s%d", level, section, n),
					Level:       fmt.Sprintf("Level %d", level),
					Section:     section,
					IsAvailable: available,
					IsReserved:  reserved,
					Rate:        layout.rate(si),
				}
				if reserved {
					spot.TimeLeft = null.IntFrom(int64(layout.MinTimeLeft + src.Intn(layout.TimeLeftSpread)))
				}
				spots = append(spots, spot)
			}
		}
	}
	return spots
}

func (l Layout) rate(section int) float64 {
	if len(l.Rates) == 0 {
		return 0
	}
	if section >= len(l.Rates) {
		return l.Rates[len(l.Rates)-1]
	}
	return l.Rates[section]
}
