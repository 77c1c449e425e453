package meals

import "github.com/dailydiet/backend/internal/models"

// computeStats aggregates meal counts and the longest run of consecutive
// diet-compliant meals. The input must already be in creation order; the
// run counter resets on any non-compliant meal.
func computeStats(list []models.Meal) models.MealStats {
	var stats models.MealStats
	var run int
	for _, m := range list {
		stats.TotalMeals++
		if m.FulfilDiet {
			stats.MealsWithinDiet++
			run++
			if run > stats.BestDietStreak {
				stats.BestDietStreak = run
			}
		} else {
			stats.MealsOutsideDiet++
			run = 0
		}
	}
	return stats
}
