package api

import (
	"net/http"
	"strconv"

	resdto "relief-ledger/internal/handler/dto/response"
	"relief-ledger/internal/handler/middleware"
	"relief-ledger/internal/infra"
	"relief-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QueryHandler struct {
	workshops     queries.WorkshopQueries
	balances      queries.BalanceQueries
	reports       queries.ReportQueries
	notifications queries.NotificationQueries
}

func NewQueryHandler(
	workshops queries.WorkshopQueries,
	balances queries.BalanceQueries,
	reports queries.ReportQueries,
	notifications queries.NotificationQueries,
) *QueryHandler {
	return &QueryHandler{
		workshops:     workshops,
		balances:      balances,
		reports:       reports,
		notifications: notifications,
	}
}

// @Summary Get workshop
// @Description Get a workshop including its accumulated material usage
// @Tags workshops
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Success 200 {object} resdto.WorkshopResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /workshops/{id} [get]
func (h *QueryHandler) GetWorkshop(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workshop ID format"})
		return
	}

	view, err := h.workshops.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Workshop not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromWorkshopView(view))
}

// @Summary List own balances
// @Description List the caller's per-product balances
// @Tags balances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BalanceResponse
// @Router /balances [get]
func (h *QueryHandler) ListMyBalances(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.writeBalances(c, userID)
}

// @Summary List balances of an owner
// @Description List another owner's balances (admin only)
// @Tags balances
// @Produce json
// @Security BearerAuth
// @Param ownerId path string true "Owner ID"
// @Success 200 {array} resdto.BalanceResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /balances/{ownerId} [get]
func (h *QueryHandler) ListOwnerBalances(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("ownerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner ID format"})
		return
	}

	h.writeBalances(c, ownerID)
}

func (h *QueryHandler) writeBalances(c *gin.Context, ownerID uuid.UUID) {
	views, err := h.balances.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]resdto.BalanceResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromBalanceView(v)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Ledger totals by product
// @Description Aggregate allocated and distributed totals from the transaction log, grouped by product
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.ProductTotal
// @Router /reports/products [get]
func (h *QueryHandler) ReportByProduct(c *gin.Context) {
	totals, err := h.reports.StockTotalsByProduct(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// @Summary Ledger totals by recipient
// @Description Aggregate distributed totals from the transaction log, grouped by recipient
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.RecipientTotal
// @Router /reports/recipients [get]
func (h *QueryHandler) ReportByRecipient(c *gin.Context) {
	totals, err := h.reports.StockTotalsByRecipient(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, totals)
}

// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows (default 50)"
// @Success 200 {array} queries.NotificationView
// @Router /notifications [get]
func (h *QueryHandler) ListNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var limit int32
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = int32(parsed)
	}

	views, err := h.notifications.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Mark notification read
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notifications/{id}/read [patch]
func (h *QueryHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID format"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
