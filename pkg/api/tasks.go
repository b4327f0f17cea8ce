package api

import (
	"context"
	"net/http"
	"net/url"
)

// TaskService provides caregiver task mining operations.
type TaskService struct {
	client *Client
}

// List fetches the caregiver's current tasks.
func (s *TaskService) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := s.client.http.requestJSON(ctx, http.MethodGet, "/caregiver/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Generate asks the backend to mine fresh tasks from recent conversations.
func (s *TaskService) Generate(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := s.client.http.requestJSON(ctx, http.MethodPost, "/caregiver/tasks/generate", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies a partial update to a task.
func (s *TaskService) Update(ctx context.Context, id string, update *TaskUpdate) (*Task, error) {
	var task Task
	path := "/caregiver/tasks/" + url.PathEscape(id)
	if err := s.client.http.requestJSON(ctx, http.MethodPatch, path, update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	path := "/caregiver/tasks/" + url.PathEscape(id)
	return s.client.http.requestJSON(ctx, http.MethodDelete, path, nil, nil)
}
