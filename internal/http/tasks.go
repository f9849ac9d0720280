package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/task-manager/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sortAliases accepts both the JSON field names and their camelCase forms.
var sortAliases = map[string]string{
	"created_at":  "created_at",
	"createdAt":   "created_at",
	"updated_at":  "updated_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

func taskID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, domain.ErrNotFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseTaskFilter reads ?completed=&limit=&skip=&sortBy=field:asc|desc.
func parseTaskFilter(c *gin.Context) (domain.TaskFilter, error) {
	var f domain.TaskFilter
	if v := c.Query("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, domain.NewValidationError("completed", "must be true or false")
		}
		f.Completed = &b
	}
	for name, dst := range map[string]*int{"limit": &f.Limit, "skip": &f.Skip} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, domain.NewValidationError(name, "must be a non-negative integer")
		}
		*dst = n
	}
	if v := c.Query("sortBy"); v != "" {
		field, dir, _ := strings.Cut(v, ":")
		col, ok := sortAliases[field]
		if !ok {
			return f, domain.NewValidationError("sortBy", "unknown field")
		}
		f.SortBy = col
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			f.Desc = true
		default:
			return f, domain.NewValidationError("sortBy", "direction must be asc or desc")
		}
	}
	return f, nil
}

// CreateTask godoc
// @Summary Create task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body domain.NewTask true "description, completed"
// @Success 201 {object} domain.Task
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /tasks [post]
func (h *Handler) CreateTask(c *gin.Context) {
	var in domain.NewTask
	if err := domain.DecodeStrict(c.Request.Body, &in); err != nil {
		fail(c, err)
		return
	}
	t, err := h.Tasks.Create(c.Request.Context(), CurrentUser(c).ID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ListTasks godoc
// @Summary List own tasks
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param completed query bool false "filter by state"
// @Param limit query int false "page size (default 50, max 200)"
// @Param skip query int false "offset"
// @Param sortBy query string false "field:asc|desc"
// @Success 200 {array} domain.Task
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	f, err := parseTaskFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, err := h.Tasks.List(c.Request.Context(), CurrentUser(c).ID, f)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetTask godoc
// @Summary Get own task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "task id"
// @Success 200 {object} domain.Task
// @Failure 404 {object} APIError
// @Router /tasks/{id} [get]
func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	t, err := h.Tasks.Get(c.Request.Context(), CurrentUser(c).ID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateTask godoc
// @Summary Update own task
// @Tags tasks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "task id"
// @Param payload body domain.TaskPatch true "description, completed"
// @Success 200 {object} domain.Task
// @Failure 400 {object} APIError
// @Failure 404 {object} APIError
// @Router /tasks/{id} [patch]
func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var p domain.TaskPatch
	if err := domain.DecodeStrict(c.Request.Body, &p); err != nil {
		fail(c, err)
		return
	}
	t, err := h.Tasks.Update(c.Request.Context(), CurrentUser(c).ID, id, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTask godoc
// @Summary Delete own task
// @Tags tasks
// @Security BearerAuth
// @Produce json
// @Param id path string true "task id"
// @Success 200 {object} domain.Task
// @Failure 404 {object} APIError
// @Router /tasks/{id} [delete]
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	t, err := h.Tasks.Delete(c.Request.Context(), CurrentUser(c).ID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
