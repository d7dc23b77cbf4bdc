package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secangkircinta/scug/internal/infrastructure/logger"
	"github.com/secangkircinta/scug/internal/ports"
)

// TaskHandler handles task listing, claiming and admin task editing
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// GetOpenTaskBoard godoc
// @Summary Open tasks
// @Description List unfilled tasks of a project, with the open tasks of other projects grouped by project
// @Tags tasks
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} ports.TaskBoard
// @Failure 400 {object} ports.ErrorResponse
// @Router /projects/{id}/tasks/open [get]
func (h *TaskHandler) GetOpenTaskBoard(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	board, err := h.taskService.GetOpenTaskBoard(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, board)
}

// GetTask godoc
// @Summary Get task
// @Description Get one task of a visible project
// @Tags tasks
// @Produce json
// @Param id path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Router /projects/{id}/tasks/{taskId} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseUUIDParam(c, "taskId")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), projectID, taskID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// ClaimTask godoc
// @Summary Claim a task
// @Description Fill an open task on behalf of a volunteer identified by phone number. Only one claim per task succeeds.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param request body ports.ClaimTaskRequest true "Volunteer"
// @Success 200 {object} ports.ClaimResult
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Router /projects/{id}/tasks/{taskId}/claim [post]
func (h *TaskHandler) ClaimTask(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	taskID, err := parseUUIDParam(c, "taskId")
	if err != nil {
		return err
	}

	var req ports.ClaimTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.ProjectID = projectID
	req.TaskID = taskID

	result, err := h.taskService.ClaimTask(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// ListProjectTasks godoc
// @Summary List project tasks
// @Description List every task of a project with its fulfiller
// @Tags admin-tasks
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} ports.TaskWithFulfiller
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/tasks [get]
func (h *TaskHandler) ListProjectTasks(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListProjectTasks(c.Request().Context(), projectID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary Create task
// @Description Add a task to a project
// @Tags admin-tasks
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/projects/{id}/tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	projectID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.ProjectID = projectID

	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Update task
// @Description Edit an unfilled task
// @Tags admin-tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Task update data"
// @Success 200 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	taskID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), taskID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete task
// @Tags admin-tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /admin/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	taskID, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), taskID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
