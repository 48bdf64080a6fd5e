package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/greenie/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	habits := Default()
	require.Len(t, habits, 9)
	require.NoError(t, Validate(habits))

	meatFree, ok := models.FindHabit(habits, "6")
	require.True(t, ok)
	assert.Equal(t, 8, meatFree.Points)
	assert.Equal(t, models.CategoryFood, meatFree.Category)

	habits[0].Points = 100
	assert.Equal(t, 5, Default()[0].Points, "Default must return a copy")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "habits.json")
	content := `[
		{"id": "bike", "name": "Bike to work", "description": "", "points": 6, "icon": "Bike", "category": "transport"},
		{"id": "compost", "name": "Compost scraps", "description": "", "points": 3, "icon": "Leaf", "category": "waste"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	habits, err := Load(path)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "bike", habits[0].ID)
	assert.Equal(t, models.CategoryWaste, habits[1].Category)
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `[{"id": }`},
		{"duplicate ids", `[{"id":"a","name":"A","points":1,"category":"food"},{"id":"a","name":"B","points":1,"category":"food"}]`},
		{"zero points", `[{"id":"a","name":"A","points":0,"category":"food"}]`},
		{"bad category", `[{"id":"a","name":"A","points":2,"category":"travel"}]`},
		{"missing name", `[{"id":"a","points":2,"category":"food"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "habits.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
