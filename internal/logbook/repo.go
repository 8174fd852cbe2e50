package logbook

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) InsertWater(ctx context.Context, w *WaterLog) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *Repo) DeleteWater(ctx context.Context, userID uint64, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&WaterLog{}).Error
}

func (r *Repo) InsertMeal(ctx context.Context, m *MealLog) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListWaterBetween returns water logs in [from, to), newest first.
func (r *Repo) ListWaterBetween(ctx context.Context, userID uint64, from, to time.Time) ([]WaterLog, error) {
	var logs []WaterLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// ListMealsBetween returns meal logs in [from, to), newest first.
func (r *Repo) ListMealsBetween(ctx context.Context, userID uint64, from, to time.Time) ([]MealLog, error) {
	var logs []MealLog
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
