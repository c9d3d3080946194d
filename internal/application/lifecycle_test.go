package application

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/atelier-studio/atelier-go/internal/domain/project"
	"github.com/atelier-studio/atelier-go/internal/notify"
	notifymock "github.com/atelier-studio/atelier-go/internal/notify/mock"
	"github.com/atelier-studio/atelier-go/internal/repository/memory"
	timermock "github.com/atelier-studio/atelier-go/internal/timer/mock"
)

const (
	clientID  = uint(10)
	creatorID = uint(20)
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type engineFixture struct {
	svc   *LifecycleService
	store *memory.Store
	timer *timermock.MockService
	gate  *notifymock.MockGateway
	clock time.Time
}

func newEngine(t *testing.T) *engineFixture {
	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })

	f := &engineFixture{
		store: memory.NewStore(),
		timer: timermock.NewMockService(ctrl),
		gate:  notifymock.NewMockGateway(ctrl),
		clock: baseTime,
	}
	f.svc = NewLifecycleService(memory.NewRepos(f.store), f.timer, f.gate)
	f.svc.Now = func() time.Time { return f.clock }
	return f
}

func (f *engineFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *engineFixture) seedProject(t *testing.T, days ...int) uint {
	t.Helper()
	p := project.Project{
		Title:     "album cover",
		ClientID:  clientID,
		CreatorID: creatorID,
		Status:    project.StatusAwait,
	}
	for i, d := range days {
		p.Stages = append(p.Stages, project.Stage{
			Name:        "stage",
			DaysPlanned: d,
			Sort:        i,
		})
	}
	require.NoError(t, f.svc.Repos.Project.CreateProject(&p))
	return p.PID
}

func logTypes(f *engineFixture, pid uint) []project.LogType {
	var types []project.LogType
	for _, l := range f.store.Logs() {
		if l.ProjectID == pid {
			types = append(types, l.Type)
		}
	}
	return types
}

func TestStart(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)

	wantDeadline := baseTime.Add(project.Days(5))
	f.timer.EXPECT().Schedule(pid, wantDeadline).Return(nil)

	p, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	require.Equal(t, project.StatusProgress, p.Status)
	require.Equal(t, 1, p.Progress)
	require.Equal(t, baseTime, *p.StartDate)
	require.Equal(t, wantDeadline, *p.DeadlineDate)

	ph := p.CurrentPhase()
	require.NotNil(t, ph)
	require.Equal(t, wantDeadline, *ph.DeadlineDate)
	require.Equal(t, []project.LogType{project.LogStart}, logTypes(f, pid))
}

func TestStartTwice(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)

	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	_, err = f.svc.Start(clientID, pid)
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestStartDiscarded(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)

	_, err := f.svc.Discard(clientID, pid)
	require.NoError(t, err)

	_, err = f.svc.Start(clientID, pid)
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestStartUnknownProject(t *testing.T) {
	f := newEngine(t)
	_, err := f.svc.Start(clientID, 999)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUploadDraft(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	// No confirm: content saved, no transition, timer untouched.
	p, err := f.svc.Upload(creatorID, pid, project.UploadDTO{Content: "wip sketch"})
	require.NoError(t, err)
	require.Equal(t, project.StatusProgress, p.Status)
	require.Equal(t, "wip sketch", p.CurrentPhase().UploadContent)
	require.Nil(t, p.CurrentPhase().UploadDate)
}

func TestUploadConfirm(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.advance(24 * time.Hour)
	f.timer.EXPECT().Cancel(pid).Return(nil)
	f.gate.EXPECT().Notify(clientID, pid, notify.EventUpload, gomock.Any())

	p, err := f.svc.Upload(creatorID, pid, project.UploadDTO{Content: "final draft", Confirm: true})
	require.NoError(t, err)

	require.Equal(t, project.StatusPending, p.Status)
	require.Nil(t, p.DeadlineDate)
	require.False(t, p.Delay)
	require.Equal(t, f.clock, *p.CurrentPhase().UploadDate)
	require.Equal(t, []project.LogType{project.LogStart, project.LogUpload}, logTypes(f, pid))
}

func TestUploadConfirmWhilePending(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	f.timer.EXPECT().Cancel(pid).Return(nil)
	f.gate.EXPECT().Notify(clientID, pid, notify.EventUpload, gomock.Any())

	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	_, err = f.svc.Upload(creatorID, pid, project.UploadDTO{Confirm: true})
	require.NoError(t, err)

	_, err = f.svc.Upload(creatorID, pid, project.UploadDTO{Confirm: true})
	require.ErrorIs(t, err, ErrPrecondition)
}

// submit drives a started project to pending.
func submit(t *testing.T, f *engineFixture, pid uint) {
	t.Helper()
	f.timer.EXPECT().Cancel(pid).Return(nil)
	f.gate.EXPECT().Notify(clientID, pid, notify.EventUpload, gomock.Any())
	_, err := f.svc.Upload(creatorID, pid, project.UploadDTO{Content: "submission", Confirm: true})
	require.NoError(t, err)
}

func TestFeedbackPassAdvancesStage(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5, 3)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	submit(t, f, pid)

	f.advance(48 * time.Hour)
	wantDeadline := f.clock.Add(project.Days(3))
	f.timer.EXPECT().Schedule(pid, wantDeadline).Return(nil)
	f.gate.EXPECT().Notify(creatorID, pid, notify.EventPass, gomock.Any())

	p, err := f.svc.Feedback(clientID, pid, project.FeedbackDTO{Content: "looks great", Pass: true, Confirm: true})
	require.NoError(t, err)

	require.Equal(t, 2, p.Progress)
	require.Equal(t, project.StatusProgress, p.Status)
	require.Equal(t, wantDeadline, *p.DeadlineDate)
	require.Equal(t, p.Stages[1].SID, p.CurrentPhase().StageID)
	require.Equal(t, []project.LogType{project.LogStart, project.LogUpload, project.LogPass}, logTypes(f, pid))
}

func TestFeedbackPassOnLastStageFinishes(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	submit(t, f, pid)

	f.timer.EXPECT().Cancel(pid).Return(nil)
	f.gate.EXPECT().Notify(creatorID, pid, notify.EventPass, gomock.Any())

	p, err := f.svc.Feedback(clientID, pid, project.FeedbackDTO{Pass: true, Confirm: true})
	require.NoError(t, err)

	require.Equal(t, project.ProgressFinished, p.Progress)
	require.Equal(t, project.StatusFinish, p.Status)
	require.Equal(t, f.clock, *p.FinishDate)
	require.Nil(t, p.DeadlineDate)
	require.Empty(t, f.store.Timers())
}

func TestFeedbackRejectOpensRevisionRound(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	submit(t, f, pid)

	// Revision budget for a 5-day stage: floor(5*0.2)+1 = 2 days.
	wantDeadline := f.clock.Add(project.Days(2))
	f.timer.EXPECT().Schedule(pid, wantDeadline).Return(nil)
	f.gate.EXPECT().Notify(creatorID, pid, notify.EventModify, gomock.Any())

	p, err := f.svc.Feedback(clientID, pid, project.FeedbackDTO{Content: "more contrast", Pass: false, Confirm: true})
	require.NoError(t, err)

	require.Equal(t, project.StatusModify, p.Status)
	require.Equal(t, 1, p.Progress)
	require.Equal(t, wantDeadline, *p.DeadlineDate)
	require.Len(t, p.Stages[0].Phases, 2)
	require.Equal(t, 1, p.CurrentPhase().Sort)
	require.Equal(t, []project.LogType{project.LogStart, project.LogUpload, project.LogModify}, logTypes(f, pid))
}

func TestFeedbackDraft(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	submit(t, f, pid)

	p, err := f.svc.Feedback(clientID, pid, project.FeedbackDTO{Content: "thinking about it"})
	require.NoError(t, err)
	require.Equal(t, project.StatusPending, p.Status)
	require.Equal(t, "thinking about it", p.CurrentPhase().FeedbackContent)
	require.Nil(t, p.CurrentPhase().FeedbackDate)
}

func TestFeedbackRequiresPending(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	_, err = f.svc.Feedback(clientID, pid, project.FeedbackDTO{Pass: true, Confirm: true})
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestPauseResumeExtendsDeadline(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	origDeadline := baseTime.Add(project.Days(5))
	f.timer.EXPECT().Schedule(pid, origDeadline).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.advance(24 * time.Hour)
	f.timer.EXPECT().Cancel(pid).Return(nil)
	p, err := f.svc.Pause(clientID, pid, "client on vacation")
	require.NoError(t, err)
	require.True(t, p.Pause)
	require.Nil(t, p.DeadlineDate)

	// Suspended for two days; the deadline moves by exactly that much.
	f.advance(48 * time.Hour)
	wantDeadline := origDeadline.Add(48 * time.Hour)
	f.timer.EXPECT().Schedule(pid, wantDeadline).Return(nil)

	p, err = f.svc.Resume(clientID, pid)
	require.NoError(t, err)
	require.False(t, p.Pause)
	require.Equal(t, wantDeadline, *p.DeadlineDate)
	require.Equal(t, wantDeadline, *p.CurrentPhase().DeadlineDate)
	require.Equal(t, []project.LogType{project.LogStart, project.LogPause, project.LogResume}, logTypes(f, pid))
}

func TestPauseNotRunning(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	_, err := f.svc.Pause(clientID, pid, "")
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestPauseTwice(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	f.timer.EXPECT().Cancel(pid).Return(nil)

	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	_, err = f.svc.Pause(clientID, pid, "")
	require.NoError(t, err)

	_, err = f.svc.Pause(clientID, pid, "")
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestResumeNotPaused(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	_, err = f.svc.Resume(clientID, pid)
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestDiscardPausesRunningProject(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.timer.EXPECT().Cancel(pid).Return(nil)
	p, err := f.svc.Discard(clientID, pid)
	require.NoError(t, err)

	require.True(t, p.Discard)
	require.True(t, p.Pause)
	// Implicit pause writes no pause log entry of its own.
	require.Equal(t, []project.LogType{project.LogStart, project.LogDiscard}, logTypes(f, pid))
}

func TestRecoverResumesPausedProject(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	origDeadline := baseTime.Add(project.Days(5))
	f.timer.EXPECT().Schedule(pid, origDeadline).Return(nil)
	f.timer.EXPECT().Cancel(pid).Return(nil)

	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	_, err = f.svc.Discard(clientID, pid)
	require.NoError(t, err)

	f.advance(72 * time.Hour)
	wantDeadline := origDeadline.Add(72 * time.Hour)
	f.timer.EXPECT().Schedule(pid, wantDeadline).Return(nil)

	p, err := f.svc.Recover(clientID, pid)
	require.NoError(t, err)
	require.False(t, p.Discard)
	require.False(t, p.Pause)
	require.Equal(t, wantDeadline, *p.DeadlineDate)
	require.Equal(t, []project.LogType{project.LogStart, project.LogDiscard, project.LogRecover}, logTypes(f, pid))
}

func TestRecoverNotDiscarded(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	_, err := f.svc.Recover(clientID, pid)
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestDiscardedProjectRejectsTransitions(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	f.timer.EXPECT().Cancel(pid).Return(nil)

	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	_, err = f.svc.Discard(clientID, pid)
	require.NoError(t, err)

	_, err = f.svc.Upload(creatorID, pid, project.UploadDTO{Confirm: true})
	require.ErrorIs(t, err, ErrPrecondition)
	_, err = f.svc.Resume(clientID, pid)
	require.ErrorIs(t, err, ErrPrecondition)
	_, err = f.svc.ChangeDeadline(clientID, pid, f.clock.Add(time.Hour))
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestChangeStageJump(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5, 3)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	wantDeadline := f.clock.Add(project.Days(3))
	f.timer.EXPECT().Schedule(pid, wantDeadline).Return(nil)

	p, err := f.svc.ChangeStage(1, pid, 2)
	require.NoError(t, err)
	require.Equal(t, 2, p.Progress)
	require.Equal(t, project.StatusProgress, p.Status)
	require.Equal(t, wantDeadline, *p.DeadlineDate)
	// The abandoned round of stage one is gone.
	require.Empty(t, p.Stages[0].Phases)
	require.Len(t, p.Stages[1].Phases, 1)
}

func TestChangeStageReset(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.timer.EXPECT().Cancel(pid).Return(nil)
	p, err := f.svc.ChangeStage(1, pid, 0)
	require.NoError(t, err)
	require.Equal(t, project.StatusAwait, p.Status)
	require.Equal(t, project.ProgressNotStarted, p.Progress)
	require.Nil(t, p.StartDate)
	require.Nil(t, p.DeadlineDate)
}

func TestChangeStageFinish(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.timer.EXPECT().Cancel(pid).Return(nil)
	p, err := f.svc.ChangeStage(1, pid, -1)
	require.NoError(t, err)
	require.Equal(t, project.StatusFinish, p.Status)
	require.Equal(t, project.ProgressFinished, p.Progress)
	require.Equal(t, f.clock, *p.FinishDate)
}

func TestChangeStageOutOfRange(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5, 3)

	_, err := f.svc.ChangeStage(1, pid, 3)
	require.ErrorIs(t, err, ErrPrecondition)
	_, err = f.svc.ChangeStage(1, pid, -2)
	require.ErrorIs(t, err, ErrPrecondition)
}

func TestChangeDeadlineFuture(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	newDeadline := f.clock.Add(project.Days(10))
	f.timer.EXPECT().Schedule(pid, newDeadline).Return(nil)

	p, err := f.svc.ChangeDeadline(1, pid, newDeadline)
	require.NoError(t, err)
	require.Equal(t, newDeadline, *p.DeadlineDate)
	require.Equal(t, newDeadline, *p.CurrentPhase().DeadlineDate)
	require.False(t, p.Delay)
}

func TestChangeDeadlinePastMarksDelayed(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	pastDeadline := f.clock.Add(-time.Hour)
	f.timer.EXPECT().Cancel(pid).Return(nil)

	p, err := f.svc.ChangeDeadline(1, pid, pastDeadline)
	require.NoError(t, err)
	require.True(t, p.Delay)
	require.Equal(t, pastDeadline, *p.DeadlineDate)
}

func TestDeleteCancelsTimer(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.timer.EXPECT().Cancel(pid).Return(nil)
	require.NoError(t, f.svc.Delete(1, pid))

	_, err = f.svc.Start(clientID, pid)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestHandleDeadlineMarksDelay(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.advance(project.Days(5) + time.Hour)
	f.svc.HandleDeadline(pid)

	p, err := f.svc.Repos.Project.GetProjectByID(pid)
	require.NoError(t, err)
	require.True(t, p.Delay)
	require.Equal(t, project.StatusProgress, p.Status)
	require.Equal(t, []project.LogType{project.LogStart, project.LogDeadline}, logTypes(f, pid))
}

func TestHandleDeadlineNoOps(t *testing.T) {
	f := newEngine(t)

	// Unknown project: nothing happens.
	f.svc.HandleDeadline(404)

	// Pending project: the submission beat the timer.
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil)
	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)
	submit(t, f, pid)

	f.svc.HandleDeadline(pid)
	p, err := f.svc.Repos.Project.GetProjectByID(pid)
	require.NoError(t, err)
	require.False(t, p.Delay)

	// Paused project.
	pid2 := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid2, gomock.Any()).Return(nil)
	f.timer.EXPECT().Cancel(pid2).Return(nil)
	_, err = f.svc.Start(clientID, pid2)
	require.NoError(t, err)
	_, err = f.svc.Pause(clientID, pid2, "")
	require.NoError(t, err)

	f.svc.HandleDeadline(pid2)
	p2, err := f.svc.Repos.Project.GetProjectByID(pid2)
	require.NoError(t, err)
	require.False(t, p2.Delay)
}

// TestHandleDeadlineSkipsMovedDeadline covers the callback racing an
// admin deadline change: the timer was listed while due, but by the time
// the callback holds the lock the deadline sits in the future again.
func TestHandleDeadlineSkipsMovedDeadline(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 5)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil).Times(2)

	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	f.advance(project.Days(5) + time.Hour)
	newDeadline := f.clock.Add(48 * time.Hour)
	_, err = f.svc.ChangeDeadline(1, pid, newDeadline)
	require.NoError(t, err)

	f.svc.HandleDeadline(pid)

	p, err := f.svc.Repos.Project.GetProjectByID(pid)
	require.NoError(t, err)
	require.False(t, p.Delay)
	require.Equal(t, []project.LogType{project.LogStart, project.LogDeadline}, logTypes(f, pid))
}

// TestFullPipeline walks a three-stage project from start to finish,
// with one revision on the middle stage.
func TestFullPipeline(t *testing.T) {
	f := newEngine(t)
	pid := f.seedProject(t, 10, 5, 2)
	f.timer.EXPECT().Schedule(pid, gomock.Any()).Return(nil).AnyTimes()
	f.timer.EXPECT().Cancel(pid).Return(nil).AnyTimes()
	f.gate.EXPECT().Notify(gomock.Any(), pid, gomock.Any(), gomock.Any()).AnyTimes()

	_, err := f.svc.Start(clientID, pid)
	require.NoError(t, err)

	pass := project.FeedbackDTO{Pass: true, Confirm: true}
	reject := project.FeedbackDTO{Pass: false, Confirm: true}
	upload := project.UploadDTO{Confirm: true}

	// Stage one: straight pass.
	_, err = f.svc.Upload(creatorID, pid, upload)
	require.NoError(t, err)
	p, err := f.svc.Feedback(clientID, pid, pass)
	require.NoError(t, err)
	require.Equal(t, 2, p.Progress)

	// Stage two: rejected once, then passed.
	_, err = f.svc.Upload(creatorID, pid, upload)
	require.NoError(t, err)
	p, err = f.svc.Feedback(clientID, pid, reject)
	require.NoError(t, err)
	require.Equal(t, project.StatusModify, p.Status)
	require.Equal(t, 2, p.Progress)

	_, err = f.svc.Upload(creatorID, pid, upload)
	require.NoError(t, err)
	p, err = f.svc.Feedback(clientID, pid, pass)
	require.NoError(t, err)
	require.Equal(t, 3, p.Progress)

	// Stage three: final pass ends the pipeline.
	_, err = f.svc.Upload(creatorID, pid, upload)
	require.NoError(t, err)
	p, err = f.svc.Feedback(clientID, pid, pass)
	require.NoError(t, err)

	require.Equal(t, project.ProgressFinished, p.Progress)
	require.Equal(t, project.StatusFinish, p.Status)
	require.Len(t, p.Stages[0].Phases, 1)
	require.Len(t, p.Stages[1].Phases, 2)
	require.Len(t, p.Stages[2].Phases, 1)

	require.Equal(t, []project.LogType{
		project.LogStart,
		project.LogUpload, project.LogPass,
		project.LogUpload, project.LogModify,
		project.LogUpload, project.LogPass,
		project.LogUpload, project.LogPass,
	}, logTypes(f, pid))
}

func TestPreconditionErrorUnwrapping(t *testing.T) {
	err := precondition("start", "progress=%d", 3)
	require.ErrorIs(t, err, ErrPrecondition)

	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "start", pe.Op)
	require.Equal(t, "start: progress=3", err.Error())
}
