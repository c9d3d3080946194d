package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	Project      ProjectRepo
	Stage        StageRepo
	Phase        PhaseRepo
	Pause        PauseRepo
	Log          LogRepo
	Timer        TimerRepo
	User         UserRepo
	File         FileRepo
	Notification NotificationRepo
	Audit        AuditRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Project:      NewProjectRepo(db),
		Stage:        NewStageRepo(db),
		Phase:        NewPhaseRepo(db),
		Pause:        NewPauseRepo(db),
		Log:          NewLogRepo(db),
		Timer:        NewTimerRepo(db),
		User:         NewUserRepo(db),
		File:         NewFileRepo(db),
		Notification: NewNotificationRepo(db),
		Audit:        NewAuditRepo(db),
		db:           db,
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Project:      r.Project.WithTx(tx),
		Stage:        r.Stage.WithTx(tx),
		Phase:        r.Phase.WithTx(tx),
		Pause:        r.Pause.WithTx(tx),
		Log:          r.Log.WithTx(tx),
		Timer:        r.Timer.WithTx(tx),
		User:         r.User.WithTx(tx),
		File:         r.File.WithTx(tx),
		Notification: r.Notification.WithTx(tx),
		Audit:        r.Audit.WithTx(tx),
		db:           tx,
	}
}

// ExecTx runs fn inside one transaction. With no database attached (unit
// tests over in-memory repos) fn runs directly.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
