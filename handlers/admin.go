package handlers

import (
	"net/http"
	"time"

	"oselya/utils"

	reservationRepo "oselya/database/repository/reservation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the owner-facing reservation queries.
type AdminHandler struct {
	Reservations reservationRepo.ReservationRepository
}

// NewAdminHandler returns a ready AdminHandler.
func NewAdminHandler(resRepo reservationRepo.ReservationRepository) *AdminHandler {
	return &AdminHandler{Reservations: resRepo}
}

// ListReservationsByDateHandler returns the reservations booked for one
// date, e.g. GET /admin/reservations/2026-03-05.
func (h *AdminHandler) ListReservationsByDateHandler(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	reservations, err := h.Reservations.GetByDate(c.Request.Context(), date)
	if err != nil {
		utils.GetLogger().Error("failed to list reservations by date",
			zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "reservations": reservations})
}
