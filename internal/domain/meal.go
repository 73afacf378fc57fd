package domain

import "time"

// MealType names a slot in the daily meal plan.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealCompletion marks one meal of one day as eaten. Unique per
// (user, day, meal); marking again is a no-op upsert.
type MealCompletion struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Day         time.Time `json:"day"`
	MealType    MealType  `json:"mealType"`
	CompletedAt time.Time `json:"completedAt"`
}

// CompleteMealRequest is the input for marking or unmarking a meal.
type CompleteMealRequest struct {
	Day      string `json:"day" validate:"required,datetime=2006-01-02"`
	MealType string `json:"mealType" validate:"required,oneof=breakfast lunch dinner"`
}
