package logbook

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount = errors.New("logbook: water amount must be positive")
	ErrInvalidInput  = errors.New("logbook: meal description, quantity and type are required")
)

// CalorieEstimator is the slice of the generation capability the meal logger
// needs. genai.Provider satisfies it.
type CalorieEstimator interface {
	EstimateCalories(ctx context.Context, description, quantity string) (int, error)
}

// DayCalories is one point of the weekly series.
type DayCalories struct {
	Date          string `json:"date"` // ISO calendar date, local timezone
	TotalCalories int    `json:"total_calories"`
}

type Service struct {
	repo      *Repo
	estimator CalorieEstimator

	// now is injectable so aggregates are reproducible in tests
	now func() time.Time
}

func NewService(repo *Repo, estimator CalorieEstimator) *Service {
	return &Service{repo: repo, estimator: estimator, now: time.Now}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// startOfDay truncates to local midnight; "today" is calendar-date equality,
// not a rolling 24h window.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *Service) LogWater(ctx context.Context, userID uint64, amount int) (*WaterLog, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	w := &WaterLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		CreatedAt: s.now(),
	}
	if err := s.repo.InsertWater(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWater removes the matching log; unknown ids are a no-op.
func (s *Service) DeleteWater(ctx context.Context, userID uint64, id string) error {
	return s.repo.DeleteWater(ctx, userID, id)
}

// LogMeal validates the input, asks the estimator for a calorie figure and
// appends the log. Estimation failure is swallowed: the meal is logged with
// 0 calories rather than blocking the primary flow.
func (s *Service) LogMeal(ctx context.Context, userID uint64, description, quantity, mealType string) (*MealLog, error) {
	if strings.TrimSpace(description) == "" || strings.TrimSpace(quantity) == "" || !validMealType(mealType) {
		return nil, ErrInvalidInput
	}

	calories := 0
	if s.estimator != nil {
		n, err := s.estimator.EstimateCalories(ctx, description, quantity)
		if err != nil {
			log.Printf("logbook: calorie estimation failed user=%d err=%v", userID, err)
		} else if n > 0 {
			calories = n
		}
	}

	m := &MealLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: description,
		Quantity:    quantity,
		MealType:    mealType,
		Calories:    calories,
		CreatedAt:   s.now(),
	}
	if err := s.repo.InsertMeal(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// TodaysWaterLogs returns today's water entries, newest first.
func (s *Service) TodaysWaterLogs(ctx context.Context, userID uint64) ([]WaterLog, error) {
	start := startOfDay(s.now())
	return s.repo.ListWaterBetween(ctx, userID, start, start.AddDate(0, 0, 1))
}

// TodaysMealLogs returns today's meal entries, newest first.
func (s *Service) TodaysMealLogs(ctx context.Context, userID uint64) ([]MealLog, error) {
	start := startOfDay(s.now())
	return s.repo.ListMealsBetween(ctx, userID, start, start.AddDate(0, 0, 1))
}

// TodaysWater sums today's water intake in millilitres. Recomputed on every
// read; no incremental counter exists to drift.
func (s *Service) TodaysWater(ctx context.Context, userID uint64) (int, error) {
	logs, err := s.TodaysWaterLogs(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range logs {
		total += l.Amount
	}
	return total, nil
}

// TodaysCalories sums today's logged calories. Recomputed on every read.
func (s *Service) TodaysCalories(ctx context.Context, userID uint64) (int, error) {
	logs, err := s.TodaysMealLogs(ctx, userID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range logs {
		total += l.Calories
	}
	return total, nil
}

// WeeklyCalories returns exactly 7 points, one per calendar day from six days
// ago through today, oldest first, zero-filled for days without logs. Pure in
// the meal collection and the service clock.
func (s *Service) WeeklyCalories(ctx context.Context, userID uint64) ([]DayCalories, error) {
	now := s.now()
	todayStart := startOfDay(now)
	weekStart := todayStart.AddDate(0, 0, -6)

	logs, err := s.repo.ListMealsBetween(ctx, userID, weekStart, todayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, 7)
	for _, l := range logs {
		day := l.CreatedAt.In(now.Location()).Format("2006-01-02")
		byDay[day] += l.Calories
	}

	out := make([]DayCalories, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, DayCalories{Date: day, TotalCalories: byDay[day]})
	}
	return out, nil
}
