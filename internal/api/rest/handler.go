package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-project-intel/internal/api/shared/errors"
	"github.com/feral-file/ff-project-intel/internal/api/shared/executor"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetProjects resolves project profiles
	// GET /api/v1/projects?name=<name1>,<name2>&token=<token1>
	GetProjects(c *gin.Context)

	// GetPeople resolves person profiles by name or Twitter username
	// GET /api/v1/people?name=<name1>,<name2>
	// GET /api/v1/people?twitter=<username1>,<username2>
	GetPeople(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

func (h *handler) GetProjects(c *gin.Context) {
	params, err := ParseGetProjectsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	profiles, err := h.executor.GetProjects(c.Request.Context(), params.Names, params.Tokens)
	if err != nil {
		respondExecutorError(c, err, "Failed to resolve projects")
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func (h *handler) GetPeople(c *gin.Context) {
	params, err := ParseGetPeopleQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if len(params.Twitter) > 0 {
		people, err := h.executor.GetPeopleByTwitter(ctx, params.Twitter)
		if err != nil {
			respondExecutorError(c, err, "Failed to resolve people")
			return
		}
		c.JSON(http.StatusOK, people)
		return
	}

	people, err := h.executor.GetPeople(ctx, params.Names)
	if err != nil {
		respondExecutorError(c, err, "Failed to resolve people")
		return
	}
	c.JSON(http.StatusOK, people)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-project-intel-api",
	})
}

// respondExecutorError passes structured executor errors through and hides anything else
func respondExecutorError(c *gin.Context, err error, message string) {
	logger.ErrorCtx(c.Request.Context(), err, zap.String("path", c.Request.URL.Path))

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusInternalServerError, apiErr)
		return
	}
	respondInternalError(c, message)
}
