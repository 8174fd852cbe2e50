package logbook

import "time"

// WaterLog is an individual intake record in millilitres. Deletable.
type WaterLog struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // UUID
	UserID    uint64    `gorm:"index;not null" json:"-"`
	Amount    int       `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (WaterLog) TableName() string { return "water_logs" }

const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealSnack     = "Snack"
)

// MealLog is immutable once created: there is no edit or delete path.
type MealLog struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"` // UUID
	UserID      uint64    `gorm:"index;not null" json:"-"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Quantity    string    `gorm:"type:varchar(64);not null" json:"quantity"`
	MealType    string    `gorm:"type:varchar(16);not null" json:"meal_type"`
	Calories    int       `gorm:"not null" json:"calories"`
	CreatedAt   time.Time `json:"created_at"`
}

func (MealLog) TableName() string { return "meal_logs" }

func validMealType(t string) bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}
