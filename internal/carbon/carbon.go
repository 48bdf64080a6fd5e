// Package carbon converts logged activity quantities into estimated kg CO2.
package carbon

import (
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/greenie/internal/models"
)

// ErrUnknownActivityType is returned when no emission factor exists for a type
var ErrUnknownActivityType = errors.New("unknown activity type")

// FallbackUnit is the unit label reported for types without a factor.
const FallbackUnit = "units"

// Factor is the emission factor for one activity type
type Factor struct {
	Type      models.ActivityType
	KgPerUnit float64 // kg CO2 per unit
	Unit      string
}

// TypeInfo describes an activity type offered on the selection surface
type TypeInfo struct {
	ID   models.ActivityType
	Name string
	Icon string
	Unit string
}

var factors = []Factor{
	{Type: models.ActivityCar, KgPerUnit: 0.21, Unit: "km"},
	{Type: models.ActivityTransit, KgPerUnit: 0.089, Unit: "km"},
	{Type: models.ActivityShower, KgPerUnit: 0.5, Unit: "minutes"},
	{Type: models.ActivityCooking, KgPerUnit: 0.3, Unit: "hours"},
	{Type: models.ActivityWaste, KgPerUnit: 1.2, Unit: "kg"},
}

var selectable = []TypeInfo{
	{ID: models.ActivityCar, Name: "Car Commute", Icon: "Car", Unit: "km"},
	{ID: models.ActivityTransit, Name: "Public Transit", Icon: "Train", Unit: "km"},
	{ID: models.ActivityShower, Name: "Hot Shower", Icon: "ShowerHead", Unit: "minutes"},
	{ID: models.ActivityCooking, Name: "Gas Cooking", Icon: "ChefHat", Unit: "hours"},
	{ID: models.ActivityWaste, Name: "Waste", Icon: "Trash2", Unit: "kg"},
}

// Lookup returns the emission factor for activityType.
func Lookup(activityType models.ActivityType) (Factor, error) {
	for _, f := range factors {
		if f.Type == activityType {
			return f, nil
		}
	}
	return Factor{}, fmt.Errorf("%w: %s", ErrUnknownActivityType, activityType)
}

// Footprint is CalculateFootprint with an explicit error for unknown types.
func Footprint(activityType models.ActivityType, quantity float64) (float64, error) {
	f, err := Lookup(activityType)
	if err != nil {
		return 0, err
	}
	return Round2(f.KgPerUnit * quantity), nil
}

// CalculateFootprint returns factor × quantity rounded to 2 decimal places.
// Unknown activity types yield 0.
func CalculateFootprint(activityType models.ActivityType, quantity float64) float64 {
	kg, err := Footprint(activityType, quantity)
	if err != nil {
		return 0
	}
	return kg
}

// UnitFor returns the unit label for activityType, or FallbackUnit if unknown.
func UnitFor(activityType models.ActivityType) string {
	f, err := Lookup(activityType)
	if err != nil {
		return FallbackUnit
	}
	return f.Unit
}

// SelectableTypes returns the activity types a user can log, in display order.
func SelectableTypes() []TypeInfo {
	out := make([]TypeInfo, len(selectable))
	copy(out, selectable)
	return out
}

// Round2 rounds v to 2 decimal places, halves rounding up.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
