// Package plant maps accumulated points to a growth stage of the virtual plant.
package plant

import "github.com/julianstephens/greenie/internal/models"

// stages is ordered by id with strictly increasing thresholds.
var stages = []models.PlantStage{
	{ID: 0, Name: "Seed", MinPoints: 0, Description: "Your journey begins with a small seed"},
	{ID: 1, Name: "Sprout", MinPoints: 35, Description: "First signs of growth are appearing"},
	{ID: 2, Name: "Seedling", MinPoints: 85, Description: "Your plant is growing stronger"},
	{ID: 3, Name: "Young Plant", MinPoints: 160, Description: "Healthy growth and development"},
	{ID: 4, Name: "Mature Plant", MinPoints: 310, Description: "A thriving, mature plant"},
	{ID: 5, Name: "Flowering Plant", MinPoints: 510, Description: "Beautiful blooms reward your dedication"},
	{ID: 6, Name: "Tree", MinPoints: 1010, Description: "A mighty tree that helps clean the air"},
}

// Stages returns a copy of the stage table.
func Stages() []models.PlantStage {
	out := make([]models.PlantStage, len(stages))
	copy(out, stages)
	return out
}

// CurrentStage returns the highest stage whose threshold is at most totalPoints.
func CurrentStage(totalPoints int) models.PlantStage {
	p := max(totalPoints, 0)
	for i := len(stages) - 1; i >= 0; i-- {
		if p >= stages[i].MinPoints {
			return stages[i]
		}
	}
	return stages[0]
}

// NextStage returns the stage after the current one. ok is false once fully grown.
func NextStage(totalPoints int) (next models.PlantStage, ok bool) {
	idx := CurrentStage(totalPoints).ID + 1
	if idx < len(stages) {
		return stages[idx], true
	}
	return models.PlantStage{}, false
}

// ProgressFraction returns how far totalPoints is through the current stage band, in [0,1].
// A fully grown plant reports 1.
func ProgressFraction(totalPoints int) float64 {
	p := max(totalPoints, 0)
	current := CurrentStage(p)
	next, ok := NextStage(p)
	if !ok {
		return 1
	}

	inBand := float64(p - current.MinPoints)
	bandSize := float64(next.MinPoints - current.MinPoints)
	return min(max(inBand/bandSize, 0), 1)
}

// PointsToNext returns the points still needed to reach the next stage, or 0 at the last stage.
func PointsToNext(totalPoints int) int {
	next, ok := NextStage(totalPoints)
	if !ok {
		return 0
	}
	return next.MinPoints - max(totalPoints, 0)
}
