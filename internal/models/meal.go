package models

import "time"

// Meal is a single diary entry stored in the PostgreSQL meals table.
type Meal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	SessionID   string    `json:"-"` // never serialize
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	FulfilDiet  bool      `json:"fulfilDiet"`
	PhotoKey    string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MealRequest is the JSON body for POST and PATCH on /{userId}/meals.
// FulfilDiet is a pointer so a missing flag can be told apart from false.
type MealRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	FulfilDiet  *bool  `json:"fulfilDiet"`
}

// MealStats is the aggregate returned by GET /{userId}/stats.
type MealStats struct {
	TotalMeals       int `json:"totalMeals"`
	MealsWithinDiet  int `json:"mealsWithinDiet"`
	MealsOutsideDiet int `json:"mealsOutsideDiet"`
	BestDietStreak   int `json:"bestDietStreak"`
}
