// Package catalog supplies the habit catalog loaded once at startup.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/greenie/internal/models"
)

var defaultHabits = []models.Habit{
	{ID: "1", Name: "💧 Cold Wash Laundry Day", Description: "Wash clothes in cold water", Points: 5, Icon: "Droplets", Category: models.CategoryEnergy},
	{ID: "2", Name: "Zero Single-Use Plastics", Description: "Avoid disposable plastic items", Points: 4, Icon: "Recycle", Category: models.CategoryWaste},
	{ID: "3", Name: "🔌 Unplug Idle Devices", Description: "Unplug unused electronics", Points: 2, Icon: "Unplug", Category: models.CategoryEnergy},
	{ID: "4", Name: "💧 5-Minute Shower", Description: "Limit shower duration", Points: 4, Icon: "Timer", Category: models.CategoryEnergy},
	{ID: "5", Name: "🔌 Digital Detox Evening", Description: "No streaming/gaming after 7PM", Points: 4, Icon: "Smartphone", Category: models.CategoryEnergy},
	{ID: "6", Name: "🌾 Meat-Free Day", Description: "Choose vegetarian/plant-based meals", Points: 8, Icon: "Leaf", Category: models.CategoryFood},
	{ID: "7", Name: "Walk/Bike Commute", Description: "Replace a short car trip with walking or cycling (7pts/10km)", Points: 7, Icon: "Bike", Category: models.CategoryTransport},
	{ID: "8", Name: "🚌 Public Transit/Carpool", Description: "Take public transit or share a ride instead of driving (8pts/trip)", Points: 8, Icon: "Bus", Category: models.CategoryTransport},
	{ID: "9", Name: "🌾 Zero Food Waste Day", Description: "Mindful food management", Points: 5, Icon: "ChefHat", Category: models.CategoryFood},
}

// Default returns the built-in habit catalog.
func Default() []models.Habit {
	out := make([]models.Habit, len(defaultHabits))
	copy(out, defaultHabits)
	return out
}

// Load reads a catalog from a JSON file holding an array of habits.
func Load(path string) ([]models.Habit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read habit catalog: %w", err)
	}

	var habits []models.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("failed to parse habit catalog %s: %w", path, err)
	}

	if err := Validate(habits); err != nil {
		return nil, fmt.Errorf("invalid habit catalog %s: %w", path, err)
	}
	return habits, nil
}

// Validate checks every habit and that ids are unique.
func Validate(habits []models.Habit) error {
	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			return err
		}
		if seen[h.ID] {
			return fmt.Errorf("duplicate habit id %q", h.ID)
		}
		seen[h.ID] = true
	}
	return nil
}
