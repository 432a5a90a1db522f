// Package selection implements the calculator's furniture selection store:
// an explicit, injectable container keyed by furniture item id that derives
// aggregate volume, weight and item count on every mutation.
package selection

import (
	"math"

	"github.com/demenago/demenago-api/models"
)

// Item is one selected furniture entry. Unit volume/weight and the category
// label are snapshotted from the catalog when the item is first added.
type Item struct {
	MeubleID  uint
	Nom       string
	Categorie string
	VolumeM3  float64
	PoidsKg   float64 // 0 when the catalog has no reference weight
	Quantite  int
}

// Store holds the current selection for one calculator session.
// Not safe for concurrent use; each session owns its own Store.
type Store struct {
	items map[uint]*Item
	order []uint // insertion order, for stable iteration

	volumeTotal   float64
	poidsTotal    float64
	nombreMeubles int
}

// NewStore returns an empty selection store.
func NewStore() *Store {
	return &Store{items: make(map[uint]*Item)}
}

// Increment adds one unit of the given catalog item. Absent items are
// inserted with quantity 1 and a snapshot of the category label.
func (s *Store) Increment(meuble models.Meuble, categorieLabel string) {
	if it, ok := s.items[meuble.ID]; ok {
		it.Quantite++
	} else {
		s.insert(meuble, categorieLabel, 1)
	}
	s.recompute()
}

// Decrement removes one unit. A no-op when the item is absent. When the
// quantity would reach 0 the entry is removed entirely, never stored as 0.
func (s *Store) Decrement(meubleID uint) {
	it, ok := s.items[meubleID]
	if !ok {
		return
	}
	if it.Quantite <= 1 {
		s.delete(meubleID)
	} else {
		it.Quantite--
	}
	s.recompute()
}

// Remove drops the entry unconditionally, whatever its quantity.
func (s *Store) Remove(meubleID uint) {
	if _, ok := s.items[meubleID]; !ok {
		return
	}
	s.delete(meubleID)
	s.recompute()
}

// SetQuantite upserts the item at the given quantity using the catalog's
// unit volume/weight. n <= 0 behaves exactly like Remove. The category label
// of an existing entry is preserved; a fresh entry gets an empty label.
func (s *Store) SetQuantite(meuble models.Meuble, n int) {
	if n <= 0 {
		s.Remove(meuble.ID)
		return
	}
	if it, ok := s.items[meuble.ID]; ok {
		it.Quantite = n
		it.VolumeM3 = meuble.VolumeM3
		it.PoidsKg = poidsOrZero(meuble.PoidsKg)
	} else {
		s.insert(meuble, "", n)
	}
	s.recompute()
}

// Reset clears all selections and zeroes the aggregates.
func (s *Store) Reset() {
	s.items = make(map[uint]*Item)
	s.order = nil
	s.recompute()
}

// GetQuantite returns the quantity for the item, 0 when absent.
func (s *Store) GetQuantite(meubleID uint) int {
	if it, ok := s.items[meubleID]; ok {
		return it.Quantite
	}
	return 0
}

// Items returns a snapshot of the selection in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

// VolumeTotal returns the aggregate volume in m³, rounded to 2 decimals.
func (s *Store) VolumeTotal() float64 { return s.volumeTotal }

// PoidsTotal returns the aggregate weight in kg, rounded to 2 decimals.
func (s *Store) PoidsTotal() float64 { return s.poidsTotal }

// NombreMeubles returns the total selected quantity across all items.
func (s *Store) NombreMeubles() int { return s.nombreMeubles }

func (s *Store) insert(meuble models.Meuble, categorieLabel string, n int) {
	s.items[meuble.ID] = &Item{
		MeubleID:  meuble.ID,
		Nom:       meuble.Nom,
		Categorie: categorieLabel,
		VolumeM3:  meuble.VolumeM3,
		PoidsKg:   poidsOrZero(meuble.PoidsKg),
		Quantite:  n,
	}
	s.order = append(s.order, meuble.ID)
}

func (s *Store) delete(meubleID uint) {
	delete(s.items, meubleID)
	for i, id := range s.order {
		if id == meubleID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// recompute rebuilds all aggregates from scratch after each mutation so
// repeated float additions never drift.
func (s *Store) recompute() {
	var volume, poids float64
	count := 0
	for _, it := range s.items {
		volume += float64(it.Quantite) * it.VolumeM3
		poids += float64(it.Quantite) * it.PoidsKg
		count += it.Quantite
	}
	s.volumeTotal = Round2(volume)
	s.poidsTotal = Round2(poids)
	s.nombreMeubles = count
}

// Round2 rounds half-up to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func poidsOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
