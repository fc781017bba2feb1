package todo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Chrix-Dev/To-do-app/internal/auth"
	"github.com/Chrix-Dev/To-do-app/internal/httputil"
	"github.com/Chrix-Dev/To-do-app/internal/logging"
)

// Handler contains HTTP handlers for todo endpoints.
// All of them run behind auth.Middleware, so the current user is
// always present in the request context.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// CreateTodoRequest represents the todo creation request body
type CreateTodoRequest struct {
	Title string `json:"title" validate:"required"`
}

// UpdateTodoRequest represents the todo update request body
type UpdateTodoRequest struct {
	Title string `json:"title" validate:"required"`
}

// DeleteTodosRequest represents the batch delete request body
type DeleteTodosRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

// TodoResponse represents a todo in API responses
type TodoResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	OwnerID int64  `json:"owner_id"`
}

// DeletedResponse reports how many todos a batch delete removed
type DeletedResponse struct {
	Deleted int64 `json:"deleted"`
}

// Create handles todo creation
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        request body CreateTodoRequest true "Todo to create"
// @Security     BearerAuth
// @Success      201 {object} TodoResponse
// @Failure      400 {object} auth.ErrorResponse "Invalid request body"
// @Failure      401 {object} auth.ErrorResponse "Unauthorized"
// @Router       /todos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := auth.CurrentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondErrorWithCode(w, "title is required", httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	newTodo, err := h.service.Create(r.Context(), currentUser, req.Title)
	if err != nil {
		if errors.Is(err, ErrTitleRequired) {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create todo", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create todo", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("todo created", "todo_id", newTodo.ID, "user_id", currentUser.ID)

	httputil.RespondJSON(w, mapTodoToResponse(newTodo), http.StatusCreated)
}

// List handles listing the current user's todos
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} TodoResponse
// @Failure      401 {object} auth.ErrorResponse "Unauthorized"
// @Router       /todos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := auth.CurrentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	todos, err := h.service.List(r.Context(), currentUser)
	if err != nil {
		logger.Error("failed to list todos", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list todos", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	response := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		response = append(response, mapTodoToResponse(&todos[i]))
	}

	httputil.RespondJSON(w, response, http.StatusOK)
}

// Get handles fetching a single todo
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Param        todoID path int true "Todo ID"
// @Security     BearerAuth
// @Success      200 {object} TodoResponse
// @Failure      401 {object} auth.ErrorResponse "Unauthorized"
// @Failure      404 {object} auth.ErrorResponse "Todo not found"
// @Router       /todos/{todoID} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := auth.CurrentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseTodoID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid todo id", httputil.CodeInvalidTodoID, http.StatusBadRequest)
		return
	}

	foundTodo, err := h.service.Get(r.Context(), currentUser, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeTodoNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get todo", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get todo", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, mapTodoToResponse(foundTodo), http.StatusOK)
}

// Update handles replacing a todo's title
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        todoID path int true "Todo ID"
// @Param        request body UpdateTodoRequest true "New title"
// @Security     BearerAuth
// @Success      200 {object} TodoResponse
// @Failure      400 {object} auth.ErrorResponse "Invalid request body"
// @Failure      401 {object} auth.ErrorResponse "Unauthorized"
// @Failure      404 {object} auth.ErrorResponse "Todo not found"
// @Router       /todos/{todoID} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := auth.CurrentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseTodoID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid todo id", httputil.CodeInvalidTodoID, http.StatusBadRequest)
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondErrorWithCode(w, "title is required", httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	updatedTodo, err := h.service.Update(r.Context(), currentUser, id, req.Title)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeTodoNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrTitleRequired) {
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeValidationFailed, http.StatusBadRequest)
			return
		}
		logger.Error("failed to update todo", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update todo", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("todo updated", "todo_id", id, "user_id", currentUser.ID)

	httputil.RespondJSON(w, mapTodoToResponse(updatedTodo), http.StatusOK)
}

// Delete handles removing a single todo
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Param        todoID path int true "Todo ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      401 {object} auth.ErrorResponse "Unauthorized"
// @Failure      404 {object} auth.ErrorResponse "Todo not found"
// @Router       /todos/{todoID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := auth.CurrentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := parseTodoID(r)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid todo id", httputil.CodeInvalidTodoID, http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), currentUser, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "todo not found", httputil.CodeTodoNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete todo", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete todo", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("todo deleted", "todo_id", id, "user_id", currentUser.ID)

	httputil.RespondJSON(w, map[string]string{"message": "todo deleted"}, http.StatusOK)
}

// DeleteMany handles batch deletion
// @Summary      Delete multiple todos
// @Description  Delete every owned todo whose id is in the request; ids that do not match are ignored
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        request body DeleteTodosRequest true "Todo IDs to delete"
// @Security     BearerAuth
// @Success      200 {object} DeletedResponse
// @Failure      400 {object} auth.ErrorResponse "Invalid request body"
// @Failure      401 {object} auth.ErrorResponse "Unauthorized"
// @Failure      404 {object} auth.ErrorResponse "No todos matched"
// @Router       /todos [delete]
func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentUser, ok := auth.CurrentUser(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req DeleteTodosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httputil.RespondErrorWithCode(w, "at least one todo id is required", httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	count, err := h.service.DeleteMany(r.Context(), currentUser, req.IDs)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "no todos found", httputil.CodeTodoNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete todos", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete todos", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("todos deleted", "count", count, "user_id", currentUser.ID)

	httputil.RespondJSON(w, DeletedResponse{Deleted: count}, http.StatusOK)
}

func parseTodoID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "todoID"), 10, 64)
}

func mapTodoToResponse(t *Todo) TodoResponse {
	return TodoResponse{
		ID:      t.ID,
		Title:   t.Title,
		OwnerID: t.OwnerID,
	}
}
