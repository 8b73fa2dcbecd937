package operations

import (
	"context"
	"sync"

	"github.com/outvoice/backend/internal/application/assistant"
	"github.com/outvoice/backend/internal/domain/billing"
	"github.com/outvoice/backend/internal/domain/operations"
	"github.com/outvoice/backend/internal/domain/shared"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// TaskScheduler suggests tasks for an invoice
type TaskScheduler interface {
	ScheduleTasks(ctx context.Context, invoiceID, surfaceKey string) ([]assistant.ScheduledTask, error)
}

// TaskService handles the task board
type TaskService struct {
	taskRepo    operations.TaskRepository
	staffRepo   operations.StaffRepository
	invoiceRepo billing.InvoiceRepository
	scheduler   TaskScheduler
	newID       func() string
	scheduling  sync.Mutex
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo operations.TaskRepository,
	staffRepo operations.StaffRepository,
	invoiceRepo billing.InvoiceRepository,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		staffRepo:   staffRepo,
		invoiceRepo: invoiceRepo,
		newID:       func() string { return shared.NewID("task") },
	}
}

// SetScheduler sets the AI task scheduler
func (s *TaskService) SetScheduler(scheduler TaskScheduler) {
	s.scheduler = scheduler
}

// Create adds a task in To Do
func (s *TaskService) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	if err := s.checkReferences(ctx, req.RelatedInvoiceID, req.AssigneeID); err != nil {
		return nil, err
	}
	task, err := operations.NewTask(s.newID(), operations.TaskDetails{
		Title:            req.Title,
		DueDate:          req.DueDate,
		RelatedInvoiceID: req.RelatedInvoiceID,
		AssigneeID:       req.AssigneeID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Task created", zap.String("task_id", task.ID), zap.String("due_date", task.DueDate.String()))

	resp := ToTaskResponse(task)
	return &resp, nil
}

func (s *TaskService) checkReferences(ctx context.Context, invoiceID, assigneeID string) error {
	if invoiceID != "" {
		if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
			return err
		}
	}
	if assigneeID != "" {
		if _, err := s.staffRepo.FindByID(ctx, assigneeID); err != nil {
			return shared.NewDomainError("INVALID_ASSIGNEE", "Staff member not found: "+assigneeID)
		}
	}
	return nil
}

// List returns every task in insertion order
func (s *TaskService) List(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToTaskResponses(tasks), nil
}

// UpdateStatus moves a task to another column
func (s *TaskService) UpdateStatus(ctx context.Context, id string, req UpdateTaskStatusRequest) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.ChangeStatus(operations.TaskStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	resp := ToTaskResponse(task)
	return &resp, nil
}

// Schedule asks the assistant for a project plan and saves it as To Do tasks.
// Tasks previously scheduled for the same invoice are replaced.
func (s *TaskService) Schedule(ctx context.Context, req ScheduleTasksRequest) ([]TaskResponse, error) {
	if s.scheduler == nil {
		return nil, shared.NewDomainError("AI_NOT_CONFIGURED", "AI features are not configured")
	}
	if _, err := s.invoiceRepo.FindByID(ctx, req.InvoiceID); err != nil {
		return nil, err
	}
	suggestions, err := s.scheduler.ScheduleTasks(ctx, req.InvoiceID, req.SurfaceKey)
	if err != nil {
		return nil, err
	}

	tasks := make([]*operations.Task, 0, len(suggestions))
	for _, sg := range suggestions {
		task, err := operations.NewTask(s.newID(), operations.TaskDetails{
			Title:            sg.Title,
			DueDate:          sg.DueDate,
			RelatedInvoiceID: req.InvoiceID,
		})
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	s.scheduling.Lock()
	defer s.scheduling.Unlock()

	existing, err := s.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, t := range existing {
		if t.RelatedInvoiceID == req.InvoiceID {
			stale = append(stale, t.ID)
		}
	}
	if err := s.taskRepo.Delete(ctx, stale...); err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if err := s.taskRepo.Save(ctx, task); err != nil {
			return nil, err
		}
	}
	logger.L(ctx).Info("Tasks scheduled",
		zap.String("invoice_id", req.InvoiceID),
		zap.Int("count", len(tasks)),
		zap.Int("replaced", len(stale)))

	return ToTaskResponses(tasks), nil
}
