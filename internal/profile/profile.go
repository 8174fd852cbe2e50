package profile

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Units gates how Height and Weight are read (cm/kg vs in/lbs).
const (
	UnitsMetric   = "Metric"
	UnitsImperial = "Imperial"
)

// Profile holds the per-account health attributes used to personalize
// generation. All fields are free text as entered by the user; one row
// per account, absent until first save.
type Profile struct {
	UserID        uint64    `gorm:"primaryKey" json:"-"`
	Age           string    `gorm:"type:varchar(16)" json:"age"`
	Gender        string    `gorm:"type:varchar(32)" json:"gender"`
	Height        string    `gorm:"type:varchar(16)" json:"height"`
	Weight        string    `gorm:"type:varchar(16)" json:"weight"`
	Units         string    `gorm:"type:varchar(16)" json:"units"`
	ActivityLevel string    `gorm:"type:varchar(64)" json:"activity_level"`
	Goal          string    `gorm:"type:varchar(128)" json:"goal"`
	Restrictions  string    `gorm:"type:text" json:"restrictions"`
	TypicalFoods  string    `gorm:"type:text" json:"typical_foods"`
	EatingHabits  string    `gorm:"type:text" json:"eating_habits"`
	UpdatedAt     time.Time `json:"-"`
}

func (Profile) TableName() string { return "profiles" }

// IsEmpty reports whether no attribute has been filled in; an empty profile
// contributes nothing to generation steering.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Age == "" && p.Gender == "" && p.Height == "" && p.Weight == "" &&
		p.ActivityLevel == "" && p.Goal == "" && p.Restrictions == "" &&
		p.TypicalFoods == "" && p.EatingHabits == ""
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the account's profile, or nil when none has been saved yet.
func (s *Store) Get(ctx context.Context, userID uint64) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Save fully replaces the account's profile. Idempotent.
func (s *Store) Save(ctx context.Context, userID uint64, p Profile) error {
	p.UserID = userID
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&p).Error
}
