package meals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dailydiet/backend/internal/models"
)

func mealsWithFlags(flags ...bool) []models.Meal {
	list := make([]models.Meal, len(flags))
	for i, f := range flags {
		list[i].FulfilDiet = f
	}
	return list
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  models.MealStats
	}{
		{
			name:  "empty diary",
			flags: nil,
			want:  models.MealStats{},
		},
		{
			name:  "streak broken in the middle",
			flags: []bool{true, true, false, true},
			want: models.MealStats{
				TotalMeals:       4,
				MealsWithinDiet:  3,
				MealsOutsideDiet: 1,
				BestDietStreak:   2,
			},
		},
		{
			name:  "no compliant meals",
			flags: []bool{false, false},
			want: models.MealStats{
				TotalMeals:       2,
				MealsOutsideDiet: 2,
			},
		},
		{
			name:  "all compliant",
			flags: []bool{true, true, true},
			want: models.MealStats{
				TotalMeals:      3,
				MealsWithinDiet: 3,
				BestDietStreak:  3,
			},
		},
		{
			name:  "longest run at the end",
			flags: []bool{true, false, true, true, true},
			want: models.MealStats{
				TotalMeals:       5,
				MealsWithinDiet:  4,
				MealsOutsideDiet: 1,
				BestDietStreak:   3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeStats(mealsWithFlags(tt.flags...)))
		})
	}
}
