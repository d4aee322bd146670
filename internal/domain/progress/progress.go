// Package progress computes project completion from stage/task snapshots.
// Everything here is pure: no I/O and no mutation of its inputs.
package progress

import (
	"math"

	"github.com/rpggio/waypoint/internal/domain/project"
)

// StageProgress is the completion of one root stage.
type StageProgress struct {
	StageID  string  `json:"stage_id"`
	Progress float64 `json:"progress"`
	Weight   float64 `json:"weight"`
}

// Result is the outcome of Compute. Percentages are in [0, 100] and unrounded.
type Result struct {
	ProjectProgress float64         `json:"project_progress"`
	PerStage        []StageProgress `json:"per_stage"`
}

// Compute weights the completion rate of every root stage by its effective
// weight. Substages do not contribute; see Rollup for nested completion.
func Compute(stages []project.Stage, tasks []project.Task) Result {
	counts := CountByStage(tasks)

	result := Result{PerStage: make([]StageProgress, 0, len(stages))}
	maxW := 0.0
	for _, stage := range stages {
		if !stage.IsRoot() {
			continue
		}
		w := EffectiveWeight(stage.Weight)
		result.PerStage = append(result.PerStage, StageProgress{
			StageID:  stage.ID,
			Progress: counts[stage.ID].Percent(),
			Weight:   w,
		})
		maxW = math.Max(maxW, w)
	}
	if len(result.PerStage) == 0 {
		return result
	}

	// Weights are scaled by the largest one so the sums stay finite.
	var weighted, totalWeight float64
	for _, sp := range result.PerStage {
		w := sp.Weight / maxW
		weighted += sp.Progress * w
		totalWeight += w
	}
	if totalWeight > 0 {
		result.ProjectProgress = clamp(weighted / totalWeight)
	}
	return result
}

// EffectiveWeight returns w when it is a positive finite number and 1 otherwise.
func EffectiveWeight(w float64) float64 {
	if w > 0 && !math.IsInf(w, 1) {
		return w
	}
	return 1
}

// Counts is the number of tasks in a stage and how many of them are completed.
type Counts struct {
	Total     int
	Completed int
}

// Percent returns the completed share in [0, 100]; an empty stage is 0.
func (c Counts) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total) * 100
}

// CountByStage tallies tasks per stage ID.
func CountByStage(tasks []project.Task) map[string]Counts {
	counts := make(map[string]Counts)
	for _, task := range tasks {
		c := counts[task.StageID]
		c.Total++
		if task.Status == project.TaskCompleted {
			c.Completed++
		}
		counts[task.StageID] = c
	}
	return counts
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
