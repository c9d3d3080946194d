package application

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"github.com/atelier-studio/atelier-go/internal/notify"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"github.com/atelier-studio/atelier-go/internal/timer"
	"gorm.io/gorm"
)

// LifecycleService drives the project production pipeline: the staged
// upload → review → pass/revise cycle, pause/resume deadline arithmetic,
// discard/recover, administrative stage jumps and the deadline callback.
//
// Every operation serializes on the project id, validates preconditions,
// applies all row changes in one transaction, and only after commit
// touches the timer and emits notifications. Timer failures are logged
// and swallowed: the delay signal is advisory, never worth failing an
// otherwise valid transition for.
type LifecycleService struct {
	Repos   *repository.Repos
	Timer   timer.Service
	Gateway notify.Gateway

	// Now is the clock; tests replace it.
	Now func() time.Time

	locks *keyedMutex
}

func NewLifecycleService(repos *repository.Repos, timerSvc timer.Service, gateway notify.Gateway) *LifecycleService {
	return &LifecycleService{
		Repos:   repos,
		Timer:   timerSvc,
		Gateway: gateway,
		Now:     time.Now,
		locks:   newKeyedMutex(),
	}
}

// notifEvent is an emission deferred until after commit.
type notifEvent struct {
	recipient uint
	event     notify.Event
	content   string
}

// sideEffects collects post-commit actions of one transition.
type sideEffects struct {
	scheduleAt  *time.Time
	cancelTimer bool
	notifs      []notifEvent
}

func (s *LifecycleService) apply(projectID uint, fx *sideEffects) {
	if fx.cancelTimer {
		if err := s.Timer.Cancel(projectID); err != nil {
			log.Printf("lifecycle: cancel timer for project %d: %v", projectID, err)
		}
	}
	if fx.scheduleAt != nil {
		if err := s.Timer.Schedule(projectID, *fx.scheduleAt); err != nil {
			log.Printf("lifecycle: schedule timer for project %d: %v", projectID, err)
		}
	}
	for _, n := range fx.notifs {
		s.Gateway.Notify(n.recipient, projectID, n.event, n.content)
	}
}

func (s *LifecycleService) loadForUpdate(tx *repository.Repos, id uint) (project.Project, error) {
	p, err := tx.Project.GetProjectForUpdate(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return project.Project{}, ErrProjectNotFound
		}
		return project.Project{}, err
	}
	return p, nil
}

func (s *LifecycleService) appendLog(tx *repository.Repos, p *project.Project, phaseID *uint, typ project.LogType, content string, operatorID uint) error {
	return tx.Log.AppendLog(&project.ProjectLog{
		ProjectID:  p.PID,
		PhaseID:    phaseID,
		Type:       typ,
		Content:    content,
		OperatorID: operatorID,
		CreatedAt:  s.Now(),
	})
}

// openPhase appends a new round to st and makes it current.
func (s *LifecycleService) openPhase(tx *repository.Repos, p *project.Project, st *project.Stage, now, deadline time.Time) (*project.Phase, error) {
	ph := project.Phase{
		ProjectID:    p.PID,
		StageID:      st.SID,
		Sort:         len(st.Phases),
		StartDate:    &now,
		DeadlineDate: &deadline,
	}
	if err := tx.Phase.CreatePhase(&ph); err != nil {
		return nil, err
	}
	st.Phases = append(st.Phases, ph)
	st.CurrentPhaseID = &ph.PhID
	if err := tx.Stage.UpdateStage(st); err != nil {
		return nil, err
	}
	return &st.Phases[len(st.Phases)-1], nil
}

// deleteOpenPhase removes the current round (with its pauses and file
// links) and clears the stage's current-phase reference.
func (s *LifecycleService) deleteOpenPhase(tx *repository.Repos, p *project.Project) error {
	st := p.CurrentStage()
	if st == nil || st.CurrentPhaseID == nil {
		return nil
	}
	id := *st.CurrentPhaseID
	if err := tx.Phase.DeletePhase(id); err != nil {
		return err
	}
	kept := st.Phases[:0]
	for _, ph := range st.Phases {
		if ph.PhID != id {
			kept = append(kept, ph)
		}
	}
	st.Phases = kept
	st.CurrentPhaseID = nil
	return tx.Stage.UpdateStage(st)
}

// Start begins the pipeline: opens the first round of the first stage
// and arms its deadline timer.
func (s *LifecycleService) Start(operatorID, projectID uint) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if p.Discard {
			return precondition("start", "project is discarded")
		}
		if p.Progress != project.ProgressNotStarted {
			return precondition("start", "project already started (progress=%d)", p.Progress)
		}
		if len(p.Stages) == 0 {
			return precondition("start", "project has no stages")
		}

		now := s.Now()
		st := &p.Stages[0]
		deadline := now.Add(project.Days(st.DaysPlanned))
		ph, err := s.openPhase(tx, &p, st, now, deadline)
		if err != nil {
			return err
		}

		p.Status = project.StatusProgress
		p.Progress = 1
		p.StartDate = &now
		p.DeadlineDate = &deadline
		p.Delay = false
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		if err := s.appendLog(tx, &p, &ph.PhID, project.LogStart, "project started", operatorID); err != nil {
			return err
		}

		fx.scheduleAt = &deadline
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// Upload records the creator's submission on the current round. With
// confirm it moves the project under review: no deadline runs while the
// client reviews, so the timer is cancelled. Without confirm it is a
// draft save with no transition.
func (s *LifecycleService) Upload(operatorID, projectID uint, in project.UploadDTO) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		ph := p.CurrentPhase()
		if ph == nil {
			return precondition("upload", "no active round (progress=%d)", p.Progress)
		}
		if in.Confirm {
			if p.Discard {
				return precondition("upload", "project is discarded")
			}
			if p.Pause {
				return precondition("upload", "project is paused")
			}
			if p.Status != project.StatusProgress && p.Status != project.StatusModify {
				return precondition("upload", "cannot submit while status is %q", p.Status)
			}
		}

		files, err := tx.File.GetFilesByIDs(in.Files)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFileNotFound
			}
			return err
		}

		ph.CreatorID = &operatorID
		ph.UploadContent = in.Content
		if err := tx.Phase.ReplaceUploadFiles(ph, files); err != nil {
			return err
		}

		if in.Confirm {
			now := s.Now()
			ph.UploadDate = &now
			p.Status = project.StatusPending
			p.Delay = false
			p.DeadlineDate = nil

			fx.cancelTimer = true
			fx.notifs = append(fx.notifs, notifEvent{
				recipient: p.ClientID,
				event:     notify.EventUpload,
				content:   fmt.Sprintf("%q has a new submission waiting for review", p.Title),
			})
			if err := s.appendLog(tx, &p, &ph.PhID, project.LogUpload, in.Content, operatorID); err != nil {
				return err
			}
		}

		if err := tx.Phase.UpdatePhase(ph); err != nil {
			return err
		}
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// Feedback records the client's verdict on the pending submission. A
// confirmed pass advances to the next stage (or finishes the project); a
// confirmed reject opens a revision round in the same stage with a
// shortened deadline. Without confirm it is a draft save.
func (s *LifecycleService) Feedback(operatorID, projectID uint, in project.FeedbackDTO) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if p.Status != project.StatusPending {
			return precondition("feedback", "no submission under review (status=%q)", p.Status)
		}
		if p.Discard {
			return precondition("feedback", "project is discarded")
		}
		if p.Pause {
			return precondition("feedback", "project is paused")
		}
		ph := p.CurrentPhase()
		if ph == nil {
			return precondition("feedback", "no active round")
		}

		ph.ClientID = &operatorID
		ph.FeedbackContent = in.Content

		if in.Confirm {
			now := s.Now()
			ph.FeedbackDate = &now

			if in.Pass {
				if p.Progress < len(p.Stages) {
					p.Progress++
					next := &p.Stages[p.Progress-1]
					deadline := now.Add(project.Days(next.DaysPlanned))
					if _, err := s.openPhase(tx, &p, next, now, deadline); err != nil {
						return err
					}
					p.Status = project.StatusProgress
					p.DeadlineDate = &deadline
					p.Delay = false
					fx.scheduleAt = &deadline
				} else {
					p.Progress = project.ProgressFinished
					p.Status = project.StatusFinish
					p.FinishDate = &now
					p.DeadlineDate = nil
					fx.cancelTimer = true
				}
				fx.notifs = append(fx.notifs, notifEvent{
					recipient: p.CreatorID,
					event:     notify.EventPass,
					content:   fmt.Sprintf("%q: submission accepted", p.Title),
				})
				if err := s.appendLog(tx, &p, &ph.PhID, project.LogPass, in.Content, operatorID); err != nil {
					return err
				}
			} else {
				st := p.CurrentStage()
				days := project.RevisionDays(st.DaysPlanned)
				deadline := now.Add(project.Days(days))
				if _, err := s.openPhase(tx, &p, st, now, deadline); err != nil {
					return err
				}
				p.Status = project.StatusModify
				p.DeadlineDate = &deadline
				p.Delay = false
				fx.scheduleAt = &deadline
				fx.notifs = append(fx.notifs, notifEvent{
					recipient: p.CreatorID,
					event:     notify.EventModify,
					content:   fmt.Sprintf("%q: revision requested", p.Title),
				})
				if err := s.appendLog(tx, &p, &ph.PhID, project.LogModify, in.Content, operatorID); err != nil {
					return err
				}
			}
		}

		if err := tx.Phase.UpdatePhase(ph); err != nil {
			return err
		}
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// ChangeStage is the administrative jump: it discards the open round and
// repositions the progress cursor at 0 (back to await), -1 (straight to
// finish) or a concrete stage.
func (s *LifecycleService) ChangeStage(operatorID, projectID uint, target int) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if p.Discard {
			return precondition("change-stage", "project is discarded")
		}
		if p.Pause {
			return precondition("change-stage", "project is paused")
		}
		if target < project.ProgressFinished || target > len(p.Stages) {
			return precondition("change-stage", "target %d out of range (stages=%d)", target, len(p.Stages))
		}

		if err := s.deleteOpenPhase(tx, &p); err != nil {
			return err
		}

		now := s.Now()
		switch target {
		case project.ProgressNotStarted:
			p.Status = project.StatusAwait
			p.Progress = project.ProgressNotStarted
			p.StartDate = nil
			p.DeadlineDate = nil
			p.Delay = false
			fx.cancelTimer = true
		case project.ProgressFinished:
			p.Status = project.StatusFinish
			p.Progress = project.ProgressFinished
			p.FinishDate = &now
			p.DeadlineDate = nil
			fx.cancelTimer = true
		default:
			p.Progress = target
			st := &p.Stages[target-1]
			deadline := now.Add(project.Days(st.DaysPlanned))
			if _, err := s.openPhase(tx, &p, st, now, deadline); err != nil {
				return err
			}
			p.Status = project.StatusProgress
			p.DeadlineDate = &deadline
			p.Delay = false
			p.FinishDate = nil
			if p.StartDate == nil {
				p.StartDate = &now
			}
			fx.scheduleAt = &deadline
		}

		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		if err := s.appendLog(tx, &p, nil, project.LogStage, fmt.Sprintf("jumped to %d", target), operatorID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// pauseInternal opens a suspension on the current round and stops
// deadline tracking. Callers log (or deliberately don't).
func (s *LifecycleService) pauseInternal(tx *repository.Repos, p *project.Project, now time.Time, reason string, fx *sideEffects) error {
	ph := p.CurrentPhase()
	if ph == nil {
		return precondition("pause", "no active round")
	}
	if err := tx.Pause.CreatePause(&project.ProjectPause{
		ProjectID: p.PID,
		PhaseID:   ph.PhID,
		PauseDate: now,
		Reason:    reason,
	}); err != nil {
		return err
	}
	p.Pause = true
	p.DeadlineDate = nil
	fx.cancelTimer = true
	return nil
}

// resumeInternal closes the round's open suspension and extends its
// deadline by exactly how long this pause lasted.
func (s *LifecycleService) resumeInternal(tx *repository.Repos, p *project.Project, now time.Time, fx *sideEffects) error {
	ph := p.CurrentPhase()
	if ph == nil {
		return precondition("resume", "no active round")
	}
	pauses, err := tx.Pause.ListPausesByPhase(ph.PhID)
	if err != nil {
		return err
	}
	open := project.OpenPause(pauses)
	if open == nil {
		return precondition("resume", "no open pause on current round")
	}

	open.ResumeDate = &now
	if err := tx.Pause.UpdatePause(open); err != nil {
		return err
	}

	if ph.DeadlineDate != nil {
		deadline := ph.DeadlineDate.Add(now.Sub(open.PauseDate))
		ph.DeadlineDate = &deadline
		if err := tx.Phase.UpdatePhase(ph); err != nil {
			return err
		}
		p.DeadlineDate = &deadline
		fx.scheduleAt = &deadline
	}
	p.Pause = false
	return nil
}

// Pause suspends deadline tracking for the active round.
func (s *LifecycleService) Pause(operatorID, projectID uint, reason string) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if p.Discard {
			return precondition("pause", "project is discarded")
		}
		if !p.IsActive() {
			return precondition("pause", "project is not running (progress=%d)", p.Progress)
		}
		if p.Pause {
			return precondition("pause", "project already paused")
		}

		now := s.Now()
		if err := s.pauseInternal(tx, &p, now, reason, fx); err != nil {
			return err
		}
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		if err := s.appendLog(tx, &p, nil, project.LogPause, reason, operatorID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// Resume reopens deadline tracking, extending the deadline by the length
// of the suspension just closed.
func (s *LifecycleService) Resume(operatorID, projectID uint) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if p.Discard {
			return precondition("resume", "project is discarded")
		}
		if !p.IsActive() {
			return precondition("resume", "project is not running (progress=%d)", p.Progress)
		}
		if !p.Pause {
			return precondition("resume", "project is not paused")
		}

		now := s.Now()
		if err := s.resumeInternal(tx, &p, now, fx); err != nil {
			return err
		}
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		if err := s.appendLog(tx, &p, nil, project.LogResume, "", operatorID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// Discard shelves the project. A running project is paused first (without
// its own pause log entry) so the timer stops cleanly.
func (s *LifecycleService) Discard(operatorID, projectID uint) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if p.Discard {
			return precondition("discard", "project already discarded")
		}

		now := s.Now()
		if p.IsActive() && !p.Pause {
			if err := s.pauseInternal(tx, &p, now, "discarded", fx); err != nil {
				return err
			}
		}
		p.Discard = true
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		if err := s.appendLog(tx, &p, nil, project.LogDiscard, "", operatorID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// Recover un-shelves a discarded project and resumes it if discarding had
// paused it.
func (s *LifecycleService) Recover(operatorID, projectID uint) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if !p.Discard {
			return precondition("recover", "project is not discarded")
		}

		p.Discard = false
		now := s.Now()
		if p.Pause {
			if err := s.resumeInternal(tx, &p, now, fx); err != nil {
				return err
			}
		}
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		if err := s.appendLog(tx, &p, nil, project.LogRecover, "", operatorID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// ChangeDeadline overrides the current round's deadline. A deadline in
// the past marks the project delayed immediately and leaves no timer.
func (s *LifecycleService) ChangeDeadline(operatorID, projectID uint, deadline time.Time) (*project.Project, error) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	var result project.Project
	fx := &sideEffects{}

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			return err
		}
		if p.Discard {
			return precondition("deadline", "project is discarded")
		}
		if p.Pause {
			return precondition("deadline", "project is paused")
		}
		if !p.IsActive() {
			return precondition("deadline", "project is not running (progress=%d)", p.Progress)
		}
		ph := p.CurrentPhase()
		if ph == nil {
			return precondition("deadline", "no active round")
		}

		d := deadline
		ph.DeadlineDate = &d
		p.DeadlineDate = &d
		if deadline.Before(s.Now()) {
			p.Delay = true
			fx.cancelTimer = true
		} else {
			p.Delay = false
			fx.scheduleAt = &d
		}

		if err := tx.Phase.UpdatePhase(ph); err != nil {
			return err
		}
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		if err := s.appendLog(tx, &p, &ph.PhID, project.LogDeadline, deadline.Format(time.RFC3339), operatorID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.apply(projectID, fx)
	return &result, nil
}

// Delete removes the whole aggregate and unconditionally drops any
// pending timer.
func (s *LifecycleService) Delete(operatorID, projectID uint) error {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		if _, err := s.loadForUpdate(tx, projectID); err != nil {
			return err
		}
		return tx.Project.DeleteProject(projectID)
	})
	if err != nil {
		return err
	}
	if err := s.Timer.Cancel(projectID); err != nil {
		log.Printf("lifecycle: cancel timer for deleted project %d: %v", projectID, err)
	}
	return nil
}

// HandleDeadline is the timer callback. It re-validates state under the
// same per-project lock as the API operations: by fire time the project
// may have been submitted, advanced, paused, discarded or deleted, and in
// all those cases the callback does nothing.
func (s *LifecycleService) HandleDeadline(projectID uint) {
	s.locks.Lock(projectID)
	defer s.locks.Unlock(projectID)

	err := s.Repos.ExecTx(func(tx *repository.Repos) error {
		p, err := s.loadForUpdate(tx, projectID)
		if err != nil {
			if errors.Is(err, ErrProjectNotFound) {
				return nil
			}
			return err
		}
		if p.Discard || p.Pause {
			return nil
		}
		if p.Status != project.StatusProgress && p.Status != project.StatusModify {
			return nil
		}
		if p.Delay {
			return nil
		}
		// A transition that ran between the sweep listing this timer and
		// the callback acquiring the lock may have moved the deadline
		// forward; the replacement timer owns the new instant.
		if p.DeadlineDate != nil && p.DeadlineDate.After(s.Now()) {
			return nil
		}

		p.Delay = true
		if err := tx.Project.UpdateProject(&p); err != nil {
			return err
		}
		return s.appendLog(tx, &p, nil, project.LogDeadline, "deadline passed", 0)
	})
	if err != nil {
		log.Printf("lifecycle: deadline callback for project %d: %v", projectID, err)
	}
}
