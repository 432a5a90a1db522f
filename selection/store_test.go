package selection

import (
	"testing"

	"github.com/demenago/demenago-api/models"
	"github.com/stretchr/testify/assert"
)

func ptrFloat(f float64) *float64 { return &f }

func canape() models.Meuble {
	return models.Meuble{ID: 1, Nom: "Canapé 3 places", VolumeM3: 2.5, PoidsKg: ptrFloat(80)}
}

func table() models.Meuble {
	return models.Meuble{ID: 2, Nom: "Table à manger", VolumeM3: 1.8, PoidsKg: ptrFloat(40)}
}

func carton() models.Meuble {
	// no reference weight in the catalog
	return models.Meuble{ID: 3, Nom: "Carton standard", VolumeM3: 0.1}
}

func TestIncrementInsertsWithQuantityOne(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")

	assert.Equal(t, 1, s.GetQuantite(1))
	assert.Equal(t, 2.5, s.VolumeTotal())
	assert.Equal(t, 80.0, s.PoidsTotal())
	assert.Equal(t, 1, s.NombreMeubles())

	items := s.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "Salon", items[0].Categorie)
}

func TestIncrementExistingItem(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")
	s.Increment(canape(), "Salon")
	s.Increment(canape(), "Salon")

	assert.Equal(t, 3, s.GetQuantite(1))
	assert.Equal(t, 7.5, s.VolumeTotal())
	assert.Equal(t, 3, s.NombreMeubles())
	assert.Len(t, s.Items(), 1, "repeated increments should not create new entries")
}

func TestDecrementRemovesEntryAtQuantityOne(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")
	s.Decrement(1)

	assert.Equal(t, 0, s.GetQuantite(1))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0.0, s.VolumeTotal())
	assert.Equal(t, 0, s.NombreMeubles())
}

func TestDecrementAbsentItemIsNoop(t *testing.T) {
	s := NewStore()
	s.Increment(table(), "Salle à manger")
	s.Decrement(99)

	assert.Equal(t, 1, s.GetQuantite(2))
	assert.Equal(t, 1.8, s.VolumeTotal())
}

func TestRemoveDropsRegardlessOfQuantity(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")
	s.Increment(canape(), "Salon")
	s.Increment(table(), "Salle à manger")

	s.Remove(1)

	assert.Equal(t, 0, s.GetQuantite(1))
	assert.Equal(t, 1, s.GetQuantite(2))
	assert.Equal(t, 1.8, s.VolumeTotal())
}

func TestSetQuantiteZeroEquivalentToRemove(t *testing.T) {
	a := NewStore()
	b := NewStore()
	for _, s := range []*Store{a, b} {
		s.Increment(canape(), "Salon")
		s.Increment(canape(), "Salon")
		s.Increment(table(), "Salle à manger")
	}

	a.SetQuantite(canape(), 0)
	b.Remove(1)

	assert.Equal(t, b.Items(), a.Items())
	assert.Equal(t, b.VolumeTotal(), a.VolumeTotal())
	assert.Equal(t, b.PoidsTotal(), a.PoidsTotal())
	assert.Equal(t, b.NombreMeubles(), a.NombreMeubles())
}

func TestSetQuantiteNegativeRemoves(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")
	s.SetQuantite(canape(), -3)

	assert.Empty(t, s.Items())
}

func TestSetQuantiteUpsertsFreshEntry(t *testing.T) {
	s := NewStore()
	s.SetQuantite(table(), 4)

	assert.Equal(t, 4, s.GetQuantite(2))
	assert.Equal(t, 7.2, s.VolumeTotal())
	items := s.Items()
	assert.Equal(t, "", items[0].Categorie, "fresh entries default to an empty category label")
}

func TestSetQuantitePreservesCategoryLabel(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")
	s.SetQuantite(canape(), 5)

	items := s.Items()
	assert.Equal(t, "Salon", items[0].Categorie)
	assert.Equal(t, 5, items[0].Quantite)
}

func TestMissingWeightTreatedAsZero(t *testing.T) {
	s := NewStore()
	s.Increment(carton(), "Divers")
	s.Increment(carton(), "Divers")
	s.Increment(canape(), "Salon")

	assert.Equal(t, 80.0, s.PoidsTotal())
	assert.Equal(t, 2.7, s.VolumeTotal())
	assert.Equal(t, 3, s.NombreMeubles())
}

func TestRoundingToTwoDecimals(t *testing.T) {
	s := NewStore()
	// 3 × 0.333 = 0.999 -> 1.0; then 0.1 makes 1.1 without drift
	m := models.Meuble{ID: 10, Nom: "Tabouret", VolumeM3: 0.333}
	s.SetQuantite(m, 3)
	assert.Equal(t, 1.0, s.VolumeTotal())

	s.Increment(carton(), "Divers")
	assert.Equal(t, 1.1, s.VolumeTotal())
}

func TestReset(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")
	s.Increment(table(), "Salle à manger")
	s.Reset()

	assert.Empty(t, s.Items())
	assert.Equal(t, 0.0, s.VolumeTotal())
	assert.Equal(t, 0.0, s.PoidsTotal())
	assert.Equal(t, 0, s.NombreMeubles())
}

func TestInsertionOrderIsStable(t *testing.T) {
	s := NewStore()
	s.Increment(table(), "Salle à manger")
	s.Increment(canape(), "Salon")
	s.Increment(carton(), "Divers")
	s.Remove(1)
	s.Increment(canape(), "Salon")

	items := s.Items()
	assert.Equal(t, uint(2), items[0].MeubleID)
	assert.Equal(t, uint(3), items[1].MeubleID)
	assert.Equal(t, uint(1), items[2].MeubleID, "re-added items go to the end")
}

// TestNoEntryEverAtZeroOrBelow runs a mixed mutation sequence and checks the
// core invariant after every step.
func TestNoEntryEverAtZeroOrBelow(t *testing.T) {
	s := NewStore()
	steps := []func(){
		func() { s.Increment(canape(), "Salon") },
		func() { s.Decrement(1) },
		func() { s.Decrement(1) },
		func() { s.SetQuantite(table(), 3) },
		func() { s.Decrement(2) },
		func() { s.Decrement(2) },
		func() { s.Decrement(2) },
		func() { s.Decrement(2) },
		func() { s.SetQuantite(carton(), 0) },
		func() { s.Increment(carton(), "Divers") },
		func() { s.Remove(3) },
		func() { s.Remove(3) },
	}

	for i, step := range steps {
		step()
		for _, it := range s.Items() {
			assert.Greater(t, it.Quantite, 0, "step %d left an entry at quantity <= 0", i)
		}
	}
}

func TestRecomputationIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Increment(canape(), "Salon")
	s.Increment(table(), "Salle à manger")

	first := s.VolumeTotal()
	s.recompute()
	assert.Equal(t, first, s.VolumeTotal())
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		out  float64
	}{
		{"exact", 2.5, 2.5},
		{"half up", 0.375, 0.38},
		{"truncating", 2.504, 2.5},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, Round2(tt.in))
		})
	}
}
