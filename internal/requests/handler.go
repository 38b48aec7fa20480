package requests

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/export"
	"spaceship-fleet/maintenance-portal/internal/pagination"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers maintenance request routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/maintenance-requests")
	{
		requests.GET("", h.list)
		requests.POST("", h.create)
		requests.GET("/export", h.export)
		requests.GET("/:id", h.get)
		requests.PUT("/:id", h.update)
		requests.DELETE("/:id", h.delete)
		requests.GET("/:id/transitions", h.transitions)
	}
}

func (h *Handler) list(c *gin.Context) {
	page, err := pagination.FromQuery(c)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	out, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) create(c *gin.Context) {
	var req MaintenanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidJSON())
		return
	}
	out, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	out, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req MaintenanceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidJSON())
		return
	}
	out, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// transitions handles GET /maintenance-requests/:id/transitions
func (h *Handler) transitions(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	out, err := h.service.Transitions(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// export handles GET /maintenance-requests/export?format=csv|xlsx
func (h *Handler) export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		apierr.Respond(c, h.logger, apierr.Validation(err.Error()))
		return
	}

	table, err := h.service.Export(c.Request.Context())
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, table); err != nil {
		apierr.Respond(c, h.logger, fmt.Errorf("render export: %w", err))
		return
	}

	filename := "maintenance-requests-" + time.Now().UTC().Format("20060102") + format.Extension()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidParameterType("id", "integer"))
		return 0, false
	}
	return id, true
}
