package project

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevisionDays(t *testing.T) {
	cases := []struct {
		planned int
		want    int
	}{
		{1, 1},
		{4, 1},
		{5, 2},
		{9, 2},
		{10, 3},
		{14, 3},
		{15, 4},
		{30, 7},
	}
	for _, c := range cases {
		require.Equal(t, c.want, RevisionDays(c.planned), "planned=%d", c.planned)
	}
}

func TestIsActive(t *testing.T) {
	p := Project{Stages: make([]Stage, 3)}

	p.Progress = ProgressNotStarted
	require.False(t, p.IsActive())

	p.Progress = ProgressFinished
	require.False(t, p.IsActive())

	for i := 1; i <= 3; i++ {
		p.Progress = i
		require.True(t, p.IsActive())
	}

	p.Progress = 4
	require.False(t, p.IsActive())
}

func TestCurrentStage(t *testing.T) {
	p := Project{Stages: []Stage{{SID: 1, Sort: 0}, {SID: 2, Sort: 1}}}

	p.Progress = ProgressNotStarted
	require.Nil(t, p.CurrentStage())

	p.Progress = 2
	require.Equal(t, uint(2), p.CurrentStage().SID)
}

func TestCurrentPhaseFollowsReference(t *testing.T) {
	phID := uint(42)
	p := Project{
		Progress: 1,
		Stages: []Stage{{
			SID:            1,
			CurrentPhaseID: &phID,
			Phases:         []Phase{{PhID: 41, Sort: 0}, {PhID: 42, Sort: 1}},
		}},
	}
	require.Equal(t, uint(42), p.CurrentPhase().PhID)

	// Without a reference there is no open round, whatever the list holds.
	p.Stages[0].CurrentPhaseID = nil
	require.Nil(t, p.CurrentPhase())
}
