package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/waypoint/internal/domain/access"
	"github.com/rpggio/waypoint/internal/domain/activity"
	"github.com/rpggio/waypoint/internal/domain/project"
)

type createProjectRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Color       string         `json:"color"`
	Status      project.Status `json:"status"`
}

type updateProjectRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Color       *string         `json:"color"`
	Status      *project.Status `json:"status"`
}

type createStageRequest struct {
	Name          string   `json:"name"`
	Weight        *float64 `json:"weight"`
	ParentStageID *string  `json:"parent_stage_id"`
	SortOrder     int      `json:"sort_order"`
}

type createTaskRequest struct {
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

type updateTaskRequest struct {
	Title    *string             `json:"title"`
	Status   *project.TaskStatus `json:"status"`
	Priority *int                `json:"priority"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	userID, _ := UserFromContext(r.Context())
	proj, err := s.svc.Projects.Create(r.Context(), userID, project.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Status:      req.Status,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	list, err := s.svc.Projects.List(r.Context(), userID, project.ListOptions{
		Query:  r.URL.Query().Get("q"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Access.GetProjectWithProgress(r.Context(), chi.URLParam(r, "projectID"), principal(r), access.ViewOptions{
		Rollup: queryBool(r, "rollup"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Access.GetSharedProject(r.Context(), chi.URLParam(r, "token"), access.ViewOptions{
		Rollup: queryBool(r, "rollup"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Access.AuthorizeWrite(r.Context(), projectID, principal(r)); err != nil {
		s.fail(w, r, err)
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	proj, err := s.svc.Projects.Update(r.Context(), projectID, project.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Status:      req.Status,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Access.AuthorizeOwner(r.Context(), projectID, principal(r)); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Projects.Delete(r.Context(), projectID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Access.AuthorizeWrite(r.Context(), projectID, principal(r)); err != nil {
		s.fail(w, r, err)
		return
	}

	var req createStageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	stage, err := s.svc.Projects.CreateStage(r.Context(), projectID, project.CreateStageRequest{
		Name:          req.Name,
		Weight:        req.Weight,
		ParentStageID: req.ParentStageID,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stage)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Access.AuthorizeWrite(r.Context(), projectID, principal(r)); err != nil {
		s.fail(w, r, err)
		return
	}

	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	task, err := s.svc.Projects.CreateTask(r.Context(), projectID, chi.URLParam(r, "stageID"), project.CreateTaskRequest{
		Title:    req.Title,
		Priority: req.Priority,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Access.AuthorizeWrite(r.Context(), projectID, principal(r)); err != nil {
		s.fail(w, r, err)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	task, err := s.svc.Projects.UpdateTask(r.Context(), projectID, chi.URLParam(r, "taskID"), project.UpdateTaskRequest{
		Title:    req.Title,
		Status:   req.Status,
		Priority: req.Priority,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Access.AuthorizeOwner(r.Context(), projectID, principal(r)); err != nil {
		s.fail(w, r, err)
		return
	}

	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), activity.ListActivityOptions{
		ProjectID: projectID,
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
