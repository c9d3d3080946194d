// Package memory provides in-memory repository implementations backing
// the state-machine unit tests, which exercise multi-step flows that need
// stateful storage rather than expectation mocks.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/atelier-studio/atelier-go/internal/domain/audit"
	"github.com/atelier-studio/atelier-go/internal/domain/file"
	"github.com/atelier-studio/atelier-go/internal/domain/notification"
	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"github.com/atelier-studio/atelier-go/internal/domain/timer"
	"github.com/atelier-studio/atelier-go/internal/domain/user"
	"github.com/atelier-studio/atelier-go/internal/repository"
	"gorm.io/gorm"
)

// Store is the shared backing state of one in-memory repository set.
type Store struct {
	mu sync.Mutex

	projects      map[uint]project.Project
	stages        map[uint]project.Stage
	phases        map[uint]project.Phase
	pauses        map[uint]project.ProjectPause
	logs          []project.ProjectLog
	files         map[uint]file.File
	users         map[uint]user.User
	timers        map[uint]timer.DeadlineTimer
	notifications []notification.Notification
	audits        []audit.AuditLog

	nextID uint
}

func NewStore() *Store {
	return &Store{
		projects: make(map[uint]project.Project),
		stages:   make(map[uint]project.Stage),
		phases:   make(map[uint]project.Phase),
		pauses:   make(map[uint]project.ProjectPause),
		files:    make(map[uint]file.File),
		users:    make(map[uint]user.User),
		timers:   make(map[uint]timer.DeadlineTimer),
	}
}

// NewRepos wires a repository container over one shared store, with no
// database attached (ExecTx runs the callback directly).
func NewRepos(st *Store) *repository.Repos {
	return &repository.Repos{
		Project:      &projectRepo{st},
		Stage:        &stageRepo{st},
		Phase:        &phaseRepo{st},
		Pause:        &pauseRepo{st},
		Log:          &logRepo{st},
		Timer:        &timerRepo{st},
		User:         &userRepo{st},
		File:         &fileRepo{st},
		Notification: &notificationRepo{st},
		Audit:        &auditRepo{st},
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// Logs returns a snapshot of the appended transition history.
func (s *Store) Logs() []project.ProjectLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]project.ProjectLog, len(s.logs))
	copy(out, s.logs)
	return out
}

// Timers returns the pending deadline timers keyed by project id.
func (s *Store) Timers() map[uint]timer.DeadlineTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint]timer.DeadlineTimer, len(s.timers))
	for k, v := range s.timers {
		out[k] = v
	}
	return out
}

// Notifications returns a snapshot of the persisted notifications.
func (s *Store) Notifications() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// assemble builds a deep aggregate copy in ladder order.
func (s *Store) assemble(p project.Project) project.Project {
	var stages []project.Stage
	for _, st := range s.stages {
		if st.ProjectID == p.PID {
			stages = append(stages, st)
		}
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Sort < stages[j].Sort })
	for i := range stages {
		var phases []project.Phase
		for _, ph := range s.phases {
			if ph.StageID == stages[i].SID {
				phases = append(phases, ph)
			}
		}
		sort.Slice(phases, func(a, b int) bool { return phases[a].Sort < phases[b].Sort })
		stages[i].Phases = phases
		if stages[i].CurrentPhaseID != nil {
			id := *stages[i].CurrentPhaseID
			stages[i].CurrentPhaseID = &id
		}
	}
	p.Stages = stages
	return p
}

// --- ProjectRepo ---

type projectRepo struct{ st *Store }

func (r *projectRepo) WithTx(*gorm.DB) repository.ProjectRepo { return r }

func (r *projectRepo) CreateProject(p *project.Project) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p.PID = r.st.id()
	for i := range p.Stages {
		p.Stages[i].SID = r.st.id()
		p.Stages[i].ProjectID = p.PID
		r.st.stages[p.Stages[i].SID] = p.Stages[i]
	}
	stored := *p
	stored.Stages = nil
	r.st.projects[p.PID] = stored
	return nil
}

func (r *projectRepo) GetProjectByID(id uint) (project.Project, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p, ok := r.st.projects[id]
	if !ok {
		return project.Project{}, gorm.ErrRecordNotFound
	}
	return r.st.assemble(p), nil
}

func (r *projectRepo) GetProjectForUpdate(id uint) (project.Project, error) {
	return r.GetProjectByID(id)
}

func (r *projectRepo) UpdateProject(p *project.Project) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.projects[p.PID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *p
	stored.Stages = nil
	r.st.projects[p.PID] = stored
	return nil
}

func (r *projectRepo) ReplaceTags(p *project.Project, tags []project.Tag) error {
	p.Tags = tags
	return r.UpdateProject(p)
}

func (r *projectRepo) FindOrCreateTags(names []string) ([]project.Tag, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	tags := make([]project.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, project.Tag{TID: r.st.id(), Name: name})
	}
	return tags, nil
}

func (r *projectRepo) ReplaceFiles(p *project.Project, files []file.File) error {
	p.Files = files
	return r.UpdateProject(p)
}

func (r *projectRepo) DeleteProject(id uint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.st.projects, id)
	for sid, st := range r.st.stages {
		if st.ProjectID == id {
			delete(r.st.stages, sid)
		}
	}
	for pid, ph := range r.st.phases {
		if ph.ProjectID == id {
			delete(r.st.phases, pid)
		}
	}
	for paid, pa := range r.st.pauses {
		if pa.ProjectID == id {
			delete(r.st.pauses, paid)
		}
	}
	kept := r.st.logs[:0]
	for _, l := range r.st.logs {
		if l.ProjectID != id {
			kept = append(kept, l)
		}
	}
	r.st.logs = kept
	return nil
}

func (r *projectRepo) ListProjects(q project.ListQuery) ([]project.Project, int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []project.Project
	for _, p := range r.st.projects {
		if q.ClientID != nil && p.ClientID != *q.ClientID {
			continue
		}
		if q.CreatorID != nil && p.CreatorID != *q.CreatorID {
			continue
		}
		out = append(out, r.st.assemble(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, int64(len(out)), nil
}

// --- StageRepo / PhaseRepo ---

type stageRepo struct{ st *Store }

func (r *stageRepo) WithTx(*gorm.DB) repository.StageRepo { return r }

func (r *stageRepo) UpdateStage(st *project.Stage) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.stages[st.SID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *st
	stored.Phases = nil
	r.st.stages[st.SID] = stored
	return nil
}

type phaseRepo struct{ st *Store }

func (r *phaseRepo) WithTx(*gorm.DB) repository.PhaseRepo { return r }

func (r *phaseRepo) CreatePhase(ph *project.Phase) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	ph.PhID = r.st.id()
	r.st.phases[ph.PhID] = *ph
	return nil
}

func (r *phaseRepo) UpdatePhase(ph *project.Phase) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.phases[ph.PhID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.st.phases[ph.PhID] = *ph
	return nil
}

func (r *phaseRepo) ReplaceUploadFiles(ph *project.Phase, files []file.File) error {
	ph.UploadFiles = files
	return r.UpdatePhase(ph)
}

func (r *phaseRepo) DeletePhase(id uint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.phases, id)
	for paid, pa := range r.st.pauses {
		if pa.PhaseID == id {
			delete(r.st.pauses, paid)
		}
	}
	return nil
}

// --- PauseRepo ---

type pauseRepo struct{ st *Store }

func (r *pauseRepo) WithTx(*gorm.DB) repository.PauseRepo { return r }

func (r *pauseRepo) CreatePause(p *project.ProjectPause) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p.ID = r.st.id()
	r.st.pauses[p.ID] = *p
	return nil
}

func (r *pauseRepo) UpdatePause(p *project.ProjectPause) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.pauses[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.st.pauses[p.ID] = *p
	return nil
}

func (r *pauseRepo) ListPausesByPhase(phaseID uint) ([]project.ProjectPause, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []project.ProjectPause
	for _, p := range r.st.pauses {
		if p.PhaseID == phaseID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- LogRepo ---

type logRepo struct{ st *Store }

func (r *logRepo) WithTx(*gorm.DB) repository.LogRepo { return r }

func (r *logRepo) AppendLog(l *project.ProjectLog) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	l.ID = r.st.id()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	r.st.logs = append(r.st.logs, *l)
	return nil
}

func (r *logRepo) ListLogsByProject(projectID uint) ([]project.ProjectLog, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []project.ProjectLog
	for _, l := range r.st.logs {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

// --- TimerRepo ---

type timerRepo struct{ st *Store }

func (r *timerRepo) WithTx(*gorm.DB) repository.TimerRepo { return r }

func (r *timerRepo) UpsertTimer(t *timer.DeadlineTimer) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.timers[t.ProjectID] = *t
	return nil
}

func (r *timerRepo) DeleteTimer(projectID uint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.timers, projectID)
	return nil
}

func (r *timerRepo) DeleteTimerAt(projectID uint, fireAt time.Time) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if t, ok := r.st.timers[projectID]; ok && t.FireAt.Equal(fireAt) {
		delete(r.st.timers, projectID)
	}
	return nil
}

func (r *timerRepo) ListDueTimers(now time.Time) ([]timer.DeadlineTimer, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var due []timer.DeadlineTimer
	for _, t := range r.st.timers {
		if !t.FireAt.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })
	return due, nil
}

// --- UserRepo ---

type userRepo struct{ st *Store }

func (r *userRepo) WithTx(*gorm.DB) repository.UserRepo { return r }

func (r *userRepo) SaveUser(u *user.User) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if u.UID == 0 {
		u.UID = r.st.id()
	}
	r.st.users[u.UID] = *u
	return nil
}

func (r *userRepo) GetUserByID(id uint) (user.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	u, ok := r.st.users[id]
	if !ok {
		return user.User{}, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *userRepo) GetUserByUsername(username string) (user.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, u := range r.st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, gorm.ErrRecordNotFound
}

func (r *userRepo) ListUsers(page, limit int) ([]user.User, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []user.User
	for _, u := range r.st.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *userRepo) DeleteUser(id uint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.users, id)
	return nil
}

// --- FileRepo ---

type fileRepo struct{ st *Store }

func (r *fileRepo) WithTx(*gorm.DB) repository.FileRepo { return r }

func (r *fileRepo) CreateFile(f *file.File) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	f.FID = r.st.id()
	r.st.files[f.FID] = *f
	return nil
}

func (r *fileRepo) GetFileByID(id uint) (file.File, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	f, ok := r.st.files[id]
	if !ok {
		return file.File{}, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *fileRepo) GetFilesByIDs(ids []uint) ([]file.File, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []file.File
	for _, id := range ids {
		f, ok := r.st.files[id]
		if !ok {
			return nil, fmt.Errorf("%w: file %d", gorm.ErrRecordNotFound, id)
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fileRepo) DeleteFile(id uint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.files, id)
	return nil
}

// --- NotificationRepo ---

type notificationRepo struct{ st *Store }

func (r *notificationRepo) WithTx(*gorm.DB) repository.NotificationRepo { return r }

func (r *notificationRepo) CreateNotification(n *notification.Notification) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	n.NID = r.st.id()
	r.st.notifications = append(r.st.notifications, *n)
	return nil
}

func (r *notificationRepo) ListNotificationsByRecipient(recipientID uint, unreadOnly bool) ([]notification.Notification, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.st.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *notificationRepo) MarkNotificationRead(id, recipientID uint) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for i := range r.st.notifications {
		if r.st.notifications[i].NID == id && r.st.notifications[i].RecipientID == recipientID {
			r.st.notifications[i].Read = true
		}
	}
	return nil
}

// --- AuditRepo ---

type auditRepo struct{ st *Store }

func (r *auditRepo) WithTx(*gorm.DB) repository.AuditRepo { return r }

func (r *auditRepo) CreateAuditLog(a *audit.AuditLog) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a.ID = r.st.id()
	r.st.audits = append(r.st.audits, *a)
	return nil
}

func (r *auditRepo) GetAuditLogs(params repository.AuditQueryParams) ([]audit.AuditLog, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]audit.AuditLog, len(r.st.audits))
	copy(out, r.st.audits)
	return out, nil
}

func (r *auditRepo) DeleteOldAuditLogs(retentionDays int) error {
	return nil
}
