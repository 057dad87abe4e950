package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stylist-backend/internal/scheduler"
	"stylist-backend/internal/transport/httpdto"
)

// AdminHandler exposes cron job controls. Routes mounting it must sit behind
// the auth middleware.
type AdminHandler struct {
	scheduler *scheduler.Scheduler
}

func NewAdminHandler(s *scheduler.Scheduler) *AdminHandler {
	return &AdminHandler{scheduler: s}
}

func (h *AdminHandler) CronStatus(c *gin.Context) {
	status, err := h.scheduler.Status(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(status))
}

// TriggerJob runs a job immediately. A failed run is reported in the result
// body, not as a transport error; only an unknown job name is an error.
func (h *AdminHandler) TriggerJob(c *gin.Context) {
	result, err := h.scheduler.TriggerNow(c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(result))
}

func (h *AdminHandler) StopJob(c *gin.Context) {
	name := c.Param("name")
	if !h.scheduler.Stop(name) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("unknown job: "+name, "NOT_FOUND"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"stopped": name}))
}

func (h *AdminHandler) StopAllJobs(c *gin.Context) {
	h.scheduler.StopAll()
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *AdminHandler) RestartJob(c *gin.Context) {
	name := c.Param("name")
	if !h.scheduler.Restart(name) {
		c.JSON(http.StatusNotFound, httpdto.NewErrorResponse("unknown job: "+name, "NOT_FOUND"))
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"restarted": name}))
}
