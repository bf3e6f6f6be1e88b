package handlers

import (
	"net/http"
	"strings"

	"rentago/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// ListVehicles handles GET /api/vehicles?type=&q=&available=&page=&limit=.
func (h *Handler) ListVehicles(c *gin.Context) {
	f := models.VehicleFilter{
		Type:          strings.TrimSpace(c.Query("type")),
		Query:         strings.TrimSpace(c.Query("q")),
		AvailableOnly: queryBool(c, "available"),
	}
	list, page, err := h.vehicleService(c).List(c.Request.Context(), f, pagination(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(list, page))
}

func (h *Handler) GetVehicle(c *gin.Context) {
	v, err := h.vehicleService(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// VehicleAvailability handles GET /api/vehicles/:id/availability?start_date=&end_date=.
func (h *Handler) VehicleAvailability(c *gin.Context) {
	out, err := h.vehicleService(c).Availability(c.Request.Context(), c.Param("id"),
		c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateVehicle(c *gin.Context) {
	var in models.VehiclePayload
	if !bindPayload(c, &in) {
		return
	}
	v, err := h.vehicleService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) UpdateVehicle(c *gin.Context) {
	var in models.VehiclePayload
	if !bindPayload(c, &in) {
		return
	}
	v, err := h.vehicleService(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteVehicle(c *gin.Context) {
	if err := h.vehicleService(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "kendaraan dihapus"})
}
