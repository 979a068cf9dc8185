// Package inventory holds the parking spots and their simulated occupancy.
package inventory

import (
	"fmt"
	"sync"

	"fastpark/models"
	"fastpark/services/simulation"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"
)

// DefaultFlipChance is the per-refresh probability that a spot toggles
// between occupied and available.
const DefaultFlipChance = 0.1

// Inventory is the live set of spots. Reads return copies.
type Inventory struct {
	mu         sync.RWMutex
	spots      []models.Spot
	index      map[string]int
	src        simulation.Source
	flipChance float64
	logger     *zap.Logger
}

// New builds an inventory over spots, which are copied.
func New(spots []models.Spot, src simulation.Source, flipChance float64, logger *zap.Logger) *Inventory {
	if logger == nil {
		logger = zap.NewNop()
	}
	inv := &Inventory{
		spots:      make([]models.Spot, len(spots)),
		index:      make(map[string]int, len(spots)),
		src:        src,
		flipChance: flipChance,
		logger:     logger,
	}
	copy(inv.spots, spots)
	for i, s := range inv.spots {
		inv.index[s.ID] = i
	}
	return inv
}

// ListSpots returns every spot in inventory order.
func (inv *Inventory) ListSpots() []models.Spot {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]models.Spot, len(inv.spots))
	copy(out, inv.spots)
	return out
}

// Get looks a spot up by id.
func (inv *Inventory) Get(id string) (models.Spot, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	i, ok := inv.index[id]
	if !ok {
		return models.Spot{}, fmt.Errorf("%w: %s", models.ErrSpotNotFound, id)
	}
	return inv.spots[i], nil
}

// Selectable returns the spots that can currently be booked.
func (inv *Inventory) Selectable() []models.Spot {
	return inv.Alternatives("", -1)
}

// Alternatives returns up to limit selectable spots other than excludeID,
// in inventory order. A negative limit means no limit.
func (inv *Inventory) Alternatives(excludeID string, limit int) []models.Spot {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	var out []models.Spot
	for _, s := range inv.spots {
		if limit >= 0 && len(out) >= limit {
			break
		}
		if s.ID == excludeID || !s.IsSelectable() {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (inv *Inventory) Stats() models.InventoryStats {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return countStats(inv.spots)
}

func countStats(spots []models.Spot) models.InventoryStats {
	stats := models.InventoryStats{Total: len(spots)}
	for _, s := range spots {
		switch s.Status() {
		case models.SpotAvailable:
			stats.Available++
		case models.SpotReserved:
			stats.Reserved++
		case models.SpotOccupied:
			stats.Occupied++
		}
	}
	return stats
}

// Refresh advances the occupancy simulation by one step. Each spot either
// flips availability (dropping any reservation) or, when reserved, loses a
// minute of its remaining hold.
func (inv *Inventory) Refresh() models.InventoryStats {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	flipped := 0
	for i := range inv.spots {
		s := &inv.spots[i]
		if inv.src.Chance(inv.flipChance) {
			s.IsAvailable = !s.IsAvailable
			s.IsReserved = false
			s.TimeLeft = null.Int{}
			flipped++
			continue
		}
		if s.IsReserved && s.TimeLeft.Valid && s.TimeLeft.Int64 > 0 {
			s.TimeLeft = null.IntFrom(s.TimeLeft.Int64 - 1)
		}
	}

	stats := countStats(inv.spots)
	inv.logger.Debug("Inventory refreshed",
		zap.Int("flipped", flipped),
		zap.Int("available", stats.Available),
		zap.Int("occupied", stats.Occupied),
		zap.Int("reserved", stats.Reserved))
	return stats
}
