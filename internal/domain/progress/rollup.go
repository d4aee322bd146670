package progress

import "github.com/rpggio/waypoint/internal/domain/project"

// SubtreeProgress is the completion of a stage including every descendant substage.
type SubtreeProgress struct {
	StageID        string  `json:"stage_id"`
	Progress       float64 `json:"progress"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
}

// Rollup counts the tasks of each stage together with those of its substages.
// It is independent from Compute and never changes the project percentage.
// Parents outside the snapshot and parent cycles are ignored.
func Rollup(stages []project.Stage, tasks []project.Task) []SubtreeProgress {
	counts := CountByStage(tasks)

	projectOf := make(map[string]string, len(stages))
	for _, stage := range stages {
		projectOf[stage.ID] = stage.ProjectID
	}

	children := make(map[string][]string)
	for _, stage := range stages {
		if stage.ParentStageID == nil {
			continue
		}
		parent := *stage.ParentStageID
		if pid, ok := projectOf[parent]; !ok || pid != stage.ProjectID {
			continue
		}
		children[parent] = append(children[parent], stage.ID)
	}

	out := make([]SubtreeProgress, 0, len(stages))
	for _, stage := range stages {
		var sum Counts
		visited := map[string]bool{}
		stack := []string{stage.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			c := counts[id]
			sum.Total += c.Total
			sum.Completed += c.Completed
			stack = append(stack, children[id]...)
		}
		out = append(out, SubtreeProgress{
			StageID:        stage.ID,
			Progress:       sum.Percent(),
			TotalTasks:     sum.Total,
			CompletedTasks: sum.Completed,
		})
	}
	return out
}
