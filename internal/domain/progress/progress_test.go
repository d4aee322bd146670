package progress_test

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rpggio/waypoint/internal/domain/progress"
	"github.com/rpggio/waypoint/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func stage(id string, weight float64, parent *string) project.Stage {
	return project.Stage{ID: id, ProjectID: "p1", Weight: weight, ParentStageID: parent}
}

func tasks(stageID string, total, completed int) []project.Task {
	out := make([]project.Task, 0, total)
	for i := 0; i < total; i++ {
		status := project.TaskTodo
		if i < completed {
			status = project.TaskCompleted
		}
		out = append(out, project.Task{ID: fmt.Sprintf("%s-t%d", stageID, i), StageID: stageID, Status: status})
	}
	return out
}

func TestCompute_WeightedStages(t *testing.T) {
	stages := []project.Stage{stage("s1", 2, nil), stage("s2", 1, nil)}
	all := append(tasks("s1", 4, 2), tasks("s2", 3, 3)...)

	res := progress.Compute(stages, all)
	require.Len(t, res.PerStage, 2)
	require.Equal(t, "s1", res.PerStage[0].StageID)
	require.InDelta(t, 50, res.PerStage[0].Progress, 1e-9)
	require.Equal(t, 2.0, res.PerStage[0].Weight)
	require.InDelta(t, 100, res.PerStage[1].Progress, 1e-9)
	require.InDelta(t, 200.0/3.0, res.ProjectProgress, 1e-9)
}

func TestCompute_EdgeCases(t *testing.T) {
	parent := "s1"

	tests := []struct {
		name   string
		stages []project.Stage
		tasks  []project.Task
		want   float64
	}{
		{name: "empty", want: 0},
		{name: "stages without tasks", stages: []project.Stage{stage("s1", 1, nil), stage("s2", 3, nil)}, want: 0},
		{
			name:   "only substages",
			stages: []project.Stage{stage("s2", 1, &parent)},
			tasks:  tasks("s2", 2, 2),
			want:   0,
		},
		{
			name:   "substage tasks ignored",
			stages: []project.Stage{stage("s1", 1, nil), stage("s2", 1, &parent)},
			tasks:  append(tasks("s1", 2, 1), tasks("s2", 5, 5)...),
			want:   50,
		},
		{
			name:   "zero weight clamps to one",
			stages: []project.Stage{stage("s1", 0, nil), stage("s2", 1, nil)},
			tasks:  append(tasks("s1", 1, 1), tasks("s2", 1, 0)...),
			want:   50,
		},
		{
			name:   "negative weight clamps to one",
			stages: []project.Stage{stage("s1", -5, nil), stage("s2", 1, nil)},
			tasks:  append(tasks("s1", 1, 1), tasks("s2", 1, 0)...),
			want:   50,
		},
		{
			name:   "tasks of unknown stage",
			stages: []project.Stage{stage("s1", 1, nil)},
			tasks:  tasks("ghost", 3, 3),
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := progress.Compute(tt.stages, tt.tasks)
			require.False(t, math.IsNaN(res.ProjectProgress))
			require.InDelta(t, tt.want, res.ProjectProgress, 1e-9)
		})
	}
}

func TestCompute_ZeroWeightReportsEffectiveWeight(t *testing.T) {
	res := progress.Compute([]project.Stage{stage("s1", 0, nil)}, nil)
	require.Len(t, res.PerStage, 1)
	require.Equal(t, 1.0, res.PerStage[0].Weight)
	require.Equal(t, 0.0, res.ProjectProgress)
}

func TestCompute_HugeWeightsStayFinite(t *testing.T) {
	stages := []project.Stage{stage("s1", math.MaxFloat64, nil), stage("s2", math.MaxFloat64, nil)}
	all := append(tasks("s1", 1, 1), tasks("s2", 1, 0)...)

	res := progress.Compute(stages, all)
	require.InDelta(t, 50, res.ProjectProgress, 1e-9)
}

func randomSnapshot(r *rand.Rand) ([]project.Stage, []project.Task) {
	n := r.IntN(6)
	stages := make([]project.Stage, 0, n)
	var all []project.Task
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("s%d", i)
		var parent *string
		if i > 0 && r.IntN(4) == 0 {
			p := fmt.Sprintf("s%d", r.IntN(i))
			parent = &p
		}
		weight := float64(r.IntN(7) - 2)
		stages = append(stages, stage(id, weight, parent))
		total := r.IntN(6)
		all = append(all, tasks(id, total, r.IntN(total+1))...)
	}
	return stages, all
}

func TestCompute_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		stages, all := randomSnapshot(r)
		before := progress.Compute(stages, all).ProjectProgress

		require.False(t, math.IsNaN(before))
		require.GreaterOrEqual(t, before, 0.0)
		require.LessOrEqual(t, before, 100.0)

		// Completing one more task never lowers progress.
		for j := range all {
			if all[j].Status == project.TaskCompleted {
				continue
			}
			all[j].Status = project.TaskCompleted
			after := progress.Compute(stages, all).ProjectProgress
			require.GreaterOrEqual(t, after, before-1e-9)
			break
		}
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	stages := []project.Stage{stage("s1", 0, nil)}
	all := tasks("s1", 2, 1)

	progress.Compute(stages, all)
	require.Equal(t, 0.0, stages[0].Weight)
	require.Equal(t, project.TaskCompleted, all[0].Status)
	require.Equal(t, project.TaskTodo, all[1].Status)
}

func TestRollup(t *testing.T) {
	s1 := "s1"
	s2 := "s2"
	stages := []project.Stage{
		stage("s1", 1, nil),
		stage("s2", 1, &s1),
		stage("s3", 1, &s2),
	}
	all := append(append(tasks("s1", 2, 0), tasks("s2", 1, 1)...), tasks("s3", 1, 1)...)

	got := progress.Rollup(stages, all)
	require.Len(t, got, 3)
	require.Equal(t, 4, got[0].TotalTasks)
	require.Equal(t, 2, got[0].CompletedTasks)
	require.InDelta(t, 50, got[0].Progress, 1e-9)
	require.InDelta(t, 100, got[1].Progress, 1e-9)
	require.Equal(t, 1, got[2].TotalTasks)

	// Root-only weighting is unchanged by the rollup.
	require.InDelta(t, 0, progress.Compute(stages, all).ProjectProgress, 1e-9)
}

func TestRollup_IgnoresCyclesAndForeignParents(t *testing.T) {
	a := "a"
	b := "b"
	foreign := "x"
	stages := []project.Stage{
		{ID: "a", ProjectID: "p1", ParentStageID: &b},
		{ID: "b", ProjectID: "p1", ParentStageID: &a},
		{ID: "c", ProjectID: "p1", ParentStageID: &foreign},
		{ID: "x", ProjectID: "p2"},
	}
	all := append(tasks("a", 1, 1), tasks("c", 1, 0)...)

	got := progress.Rollup(stages, all)
	require.Len(t, got, 4)
	require.Equal(t, 1, got[0].TotalTasks)
	require.Equal(t, 1, got[1].TotalTasks)
	require.Equal(t, 1, got[2].TotalTasks)
	require.Equal(t, 0, got[3].TotalTasks)
}

func TestCountByStage(t *testing.T) {
	all := append(tasks("a", 4, 1), tasks("b", 2, 2)...)

	counts := progress.CountByStage(all)
	require.Equal(t, progress.Counts{Total: 4, Completed: 1}, counts["a"])
	require.Equal(t, progress.Counts{Total: 2, Completed: 2}, counts["b"])
	require.InDelta(t, 25, counts["a"].Percent(), 1e-9)
	require.InDelta(t, 100, counts["b"].Percent(), 1e-9)
	require.Zero(t, counts["missing"].Percent())
}
