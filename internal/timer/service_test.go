package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/atelier-studio/atelier-go/internal/domain/timer"
	"github.com/atelier-studio/atelier-go/internal/repository/memory"
)

var testBase = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*DBService, *memory.Store, *[]uint, *time.Time) {
	st := memory.NewStore()
	repos := memory.NewRepos(st)

	now := testBase
	var fired []uint

	svc := New(repos.Timer, time.Second, 7*24*time.Hour)
	svc.SetNow(func() time.Time { return now })
	svc.SetHandler(func(projectID uint) {
		fired = append(fired, projectID)
	})
	return svc, st, &fired, &now
}

func TestScheduleAndFire(t *testing.T) {
	svc, st, fired, now := newTestService(t)

	require.NoError(t, svc.Schedule(7, testBase.Add(time.Hour)))
	svc.FireDue()
	require.Empty(t, *fired)

	*now = testBase.Add(2 * time.Hour)
	svc.FireDue()
	require.Equal(t, []uint{7}, *fired)
	require.Empty(t, st.Timers())
}

func TestScheduleReplacesPending(t *testing.T) {
	svc, st, fired, now := newTestService(t)

	require.NoError(t, svc.Schedule(7, testBase.Add(time.Hour)))
	require.NoError(t, svc.Schedule(7, testBase.Add(3*time.Hour)))

	timers := st.Timers()
	require.Len(t, timers, 1)
	require.Equal(t, testBase.Add(3*time.Hour), timers[7].FireAt)

	// The original fire time passes without firing.
	*now = testBase.Add(2 * time.Hour)
	svc.FireDue()
	require.Empty(t, *fired)

	*now = testBase.Add(4 * time.Hour)
	svc.FireDue()
	require.Equal(t, []uint{7}, *fired)
}

func TestCancel(t *testing.T) {
	svc, st, fired, now := newTestService(t)

	require.NoError(t, svc.Schedule(7, testBase.Add(time.Hour)))
	require.NoError(t, svc.Cancel(7))
	require.Empty(t, st.Timers())

	*now = testBase.Add(2 * time.Hour)
	svc.FireDue()
	require.Empty(t, *fired)
}

func TestCancelWithoutTimerIsNoop(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	require.NoError(t, svc.Cancel(99))
}

// A handler that reschedules its own key must not lose the replacement
// to the sweep's post-fire delete.
func TestRescheduleDuringFireKeepsReplacement(t *testing.T) {
	svc, st, _, now := newTestService(t)

	var fired []uint
	replacement := testBase.Add(48 * time.Hour)
	svc.SetHandler(func(projectID uint) {
		fired = append(fired, projectID)
		require.NoError(t, svc.Schedule(projectID, replacement))
	})

	require.NoError(t, svc.Schedule(7, testBase.Add(time.Hour)))
	*now = testBase.Add(2 * time.Hour)
	svc.FireDue()
	require.Equal(t, []uint{7}, fired)

	timers := st.Timers()
	require.Len(t, timers, 1)
	require.Equal(t, replacement, timers[7].FireAt)

	// The replacement does not fire early, then fires once.
	svc.FireDue()
	require.Equal(t, []uint{7}, fired)

	*now = replacement.Add(time.Minute)
	svc.FireDue()
	require.Equal(t, []uint{7, 7}, fired)
	require.Empty(t, st.Timers())
}

func TestOverdueWithinGraceStillFires(t *testing.T) {
	svc, _, fired, now := newTestService(t)

	// Simulates a restart: the timer came due days ago but inside grace.
	require.NoError(t, svc.Schedule(7, testBase))
	*now = testBase.Add(3 * 24 * time.Hour)
	svc.FireDue()
	require.Equal(t, []uint{7}, *fired)
}

func TestStaleTimerDroppedWithoutFiring(t *testing.T) {
	svc, st, fired, now := newTestService(t)

	require.NoError(t, svc.Schedule(7, testBase))
	*now = testBase.Add(8 * 24 * time.Hour)
	svc.FireDue()
	require.Empty(t, *fired)
	require.Empty(t, st.Timers())
}

func TestFireOrderAndIsolation(t *testing.T) {
	svc, _, fired, now := newTestService(t)

	require.NoError(t, svc.Schedule(2, testBase.Add(2*time.Hour)))
	require.NoError(t, svc.Schedule(1, testBase.Add(time.Hour)))
	require.NoError(t, svc.Schedule(3, testBase.Add(72*time.Hour)))

	*now = testBase.Add(3 * time.Hour)
	svc.FireDue()
	require.Equal(t, []uint{1, 2}, *fired)
}

func TestFireDueWithNilHandlerStillDrains(t *testing.T) {
	st := memory.NewStore()
	repos := memory.NewRepos(st)
	svc := New(repos.Timer, time.Second, time.Hour)
	svc.SetNow(func() time.Time { return testBase.Add(time.Minute) })

	require.NoError(t, repos.Timer.UpsertTimer(&domain.DeadlineTimer{ProjectID: 5, FireAt: testBase}))
	svc.FireDue()
	require.Empty(t, st.Timers())
}
