package repository

import (
	"time"

	"github.com/atelier-studio/atelier-go/internal/domain/timer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TimerRepo interface {
	// UpsertTimer replaces any pending timer for the same project id.
	UpsertTimer(t *timer.DeadlineTimer) error
	DeleteTimer(projectID uint) error
	// DeleteTimerAt removes the timer only if it still fires at the given
	// instant, so a timer replaced mid-sweep survives.
	DeleteTimerAt(projectID uint, fireAt time.Time) error
	// ListDueTimers returns timers whose fire time has passed.
	ListDueTimers(now time.Time) ([]timer.DeadlineTimer, error)
	WithTx(tx *gorm.DB) TimerRepo
}

type DBTimerRepo struct {
	db *gorm.DB
}

func NewTimerRepo(db *gorm.DB) *DBTimerRepo {
	return &DBTimerRepo{db: db}
}

func (r *DBTimerRepo) WithTx(tx *gorm.DB) TimerRepo {
	if tx == nil {
		return r
	}
	return &DBTimerRepo{db: tx}
}

func (r *DBTimerRepo) UpsertTimer(t *timer.DeadlineTimer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fire_at", "update_at"}),
	}).Create(t).Error
}

func (r *DBTimerRepo) DeleteTimer(projectID uint) error {
	return r.db.Delete(&timer.DeadlineTimer{}, "project_id = ?", projectID).Error
}

func (r *DBTimerRepo) DeleteTimerAt(projectID uint, fireAt time.Time) error {
	return r.db.Delete(&timer.DeadlineTimer{}, "project_id = ? AND fire_at = ?", projectID, fireAt).Error
}

func (r *DBTimerRepo) ListDueTimers(now time.Time) ([]timer.DeadlineTimer, error) {
	var due []timer.DeadlineTimer
	err := r.db.Where("fire_at <= ?", now).Order("fire_at ASC").Find(&due).Error
	return due, err
}
