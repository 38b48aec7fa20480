package repairmen

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/pagination"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers repairman routes under /repairmen
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	repairmen := router.Group("/repairmen")
	{
		repairmen.GET("", h.list)
		repairmen.POST("", h.create)
		repairmen.GET("/:id", h.get)
		repairmen.PUT("/:id", h.update)
		repairmen.DELETE("/:id", h.delete)
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
	var req RepairmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidJSON())
		return
	}
	r, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	r, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req RepairmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidJSON())
		return
	}
	r, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, r)
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

func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidParameterType("id", "integer"))
		return 0, false
	}
	return id, true
}
