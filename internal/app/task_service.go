package app

import (
	"context"
	"time"

	"todoweb/internal/model"
	"todoweb/internal/repository"
)

type TaskService struct {
	taskRepo *repository.TaskRepository
	events   EventPublisher
}

func NewTaskService(taskRepo *repository.TaskRepository, events EventPublisher) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		events:   events,
	}
}

// ListTasks returns the owner's tasks in creation order.
func (s *TaskService) ListTasks(userID uint) ([]model.Task, error) {
	return s.taskRepo.ListByUserID(userID)
}

// CreateTask inserts a task owned by userID. An empty text is a silent
// no-op, not an error: the form submits the field verbatim and an empty
// value means nothing was entered. No trimming is applied.
func (s *TaskService) CreateTask(ctx context.Context, userID uint, text string) error {
	if text == "" {
		return nil
	}

	task := &model.Task{
		Text:      text,
		Completed: false,
		UserID:    userID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return err
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, model.ActivityEvent{
			UserID:    userID,
			Kind:      model.EventTaskCreated,
			Detail:    task.Text,
			CreatedAt: time.Now(),
		})
	}
	return nil
}
