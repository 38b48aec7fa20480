package spaceships

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/pagination"
)

// Handler handles HTTP requests for spaceships
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers spaceship routes under /spaceships
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	ships := router.Group("/spaceships")
	{
		ships.GET("", h.list)
		ships.POST("", h.create)
		ships.GET("/:serial", h.get)
		ships.PUT("/:serial", h.update)
		ships.DELETE("/:serial", h.delete)
	}
}

// list handles GET /spaceships
func (h *Handler) list(c *gin.Context) {
	page, err := pagination.FromQuery(c)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	ships, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ships)
}

// create handles POST /spaceships
func (h *Handler) create(c *gin.Context) {
	var req SpaceshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidJSON())
		return
	}
	ship, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ship)
}

// get handles GET /spaceships/:serial
func (h *Handler) get(c *gin.Context) {
	serial, ok := h.serialParam(c)
	if !ok {
		return
	}
	ship, err := h.service.Get(c.Request.Context(), serial)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ship)
}

// update handles PUT /spaceships/:serial
func (h *Handler) update(c *gin.Context) {
	serial, ok := h.serialParam(c)
	if !ok {
		return
	}
	var req SpaceshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidJSON())
		return
	}
	ship, err := h.service.Update(c.Request.Context(), serial, &req)
	if err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, ship)
}

// delete handles DELETE /spaceships/:serial
func (h *Handler) delete(c *gin.Context) {
	serial, ok := h.serialParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), serial); err != nil {
		apierr.Respond(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) serialParam(c *gin.Context) (int64, bool) {
	serial, err := strconv.ParseInt(c.Param("serial"), 10, 64)
	if err != nil {
		apierr.Respond(c, h.logger, apierr.InvalidParameterType("serial", "integer"))
		return 0, false
	}
	return serial, true
}
