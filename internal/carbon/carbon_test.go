package carbon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/greenie/internal/models"
)

func TestCalculateFootprint(t *testing.T) {
	tests := []struct {
		name     string
		typ      models.ActivityType
		quantity float64
		want     float64
	}{
		{"car commute 10km", models.ActivityCar, 10, 2.1},
		{"transit 12km", models.ActivityTransit, 12, 1.07},
		{"shower 8 minutes", models.ActivityShower, 8, 4},
		{"cooking half hour", models.ActivityCooking, 0.5, 0.15},
		{"waste 2.5kg", models.ActivityWaste, 2.5, 3},
		{"coffee has no factor", models.ActivityCoffee, 3, 0},
		{"electricity has no factor", models.ActivityElectricity, 3, 0},
		{"unknown type", models.ActivityType("plane"), 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateFootprint(tt.typ, tt.quantity), 1e-9)
		})
	}
}

func TestCalculateFootprintMatchesFactorTable(t *testing.T) {
	quantities := []float64{0.1, 1, 3.3, 17, 250}
	for _, f := range factors {
		for _, q := range quantities {
			assert.Equal(t, Round2(f.KgPerUnit*q), CalculateFootprint(f.Type, q), "%s × %v", f.Type, q)
			assert.Equal(t, f.Unit, UnitFor(f.Type))
		}
	}
}

func TestUnitFor(t *testing.T) {
	assert.Equal(t, "km", UnitFor(models.ActivityCar))
	assert.Equal(t, "minutes", UnitFor(models.ActivityShower))
	assert.Equal(t, "hours", UnitFor(models.ActivityCooking))
	assert.Equal(t, "kg", UnitFor(models.ActivityWaste))
	assert.Equal(t, FallbackUnit, UnitFor(models.ActivityCoffee))
	assert.Equal(t, "units", UnitFor(models.ActivityType("")))
}

func TestFootprintUnknownType(t *testing.T) {
	_, err := Footprint(models.ActivityElectricity, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownActivityType))

	kg, err := Footprint(models.ActivityWaste, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.2, kg)
}

func TestSelectableTypes(t *testing.T) {
	types := SelectableTypes()
	require.Len(t, types, 5)
	for _, ti := range types {
		assert.NotEqual(t, models.ActivityCoffee, ti.ID)
		assert.NotEqual(t, models.ActivityElectricity, ti.ID)
		assert.Equal(t, UnitFor(ti.ID), ti.Unit)
	}

	// Callers get a copy
	types[0].Name = "changed"
	assert.Equal(t, "Car Commute", SelectableTypes()[0].Name)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 1.0, Round2(0.999))
	assert.Equal(t, 0.0, Round2(0.004))
}
