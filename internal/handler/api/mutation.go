package api

import (
	"errors"
	"net/http"

	reqdto "relief-ledger/internal/handler/dto/request"
	resdto "relief-ledger/internal/handler/dto/response"
	"relief-ledger/internal/handler/middleware"
	"relief-ledger/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MutationHandler struct {
	engine commands.MutationEngine
}

func NewMutationHandler(engine commands.MutationEngine) *MutationHandler {
	return &MutationHandler{
		engine: engine,
	}
}

// @Summary Distribute to one participant
// @Description Distribute a quantity of one product to a single eligible workshop participant
// @Tags distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.DistributeRequest true "Distribution request"
// @Success 201 {object} resdto.MutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /distributions [post]
func (h *MutationHandler) Distribute(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.DistributeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.engine.Distribute(c.Request.Context(), req.ToParams(), principal, idempotencyKey)
	if err != nil {
		writeMutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMutationResult(result))
}

// @Summary Distribute to many participants
// @Description Distribute quantity_each units of one product to every recipient, atomically for the whole batch
// @Tags distributions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.BulkDistributeRequest true "Bulk distribution request"
// @Success 201 {object} resdto.MutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /distributions/bulk [post]
func (h *MutationHandler) DistributeBulk(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.BulkDistributeRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.engine.DistributeBulk(c.Request.Context(), req.ToParams(), principal, idempotencyKey)
	if err != nil {
		writeMutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMutationResult(result))
}

// @Summary Allocate stock
// @Description Move catalog stock into an owner's balance (admin only)
// @Tags allocations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.AllocateRequest true "Allocation request"
// @Success 201 {object} resdto.MutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]any
// @Router /allocations [post]
func (h *MutationHandler) Allocate(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.AllocateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.engine.Allocate(c.Request.Context(), req.ToParams(), principal, idempotencyKey)
	if err != nil {
		writeMutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMutationResult(result))
}

// @Summary Change enrollment status
// @Description Move one program enrollment to a new status, adjusting program counters
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param participantId path string true "Participant ID"
// @Param request body reqdto.EnrollmentStatusRequest true "New status"
// @Success 200 {object} resdto.MutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /programs/{id}/enrollments/{participantId}/status [patch]
func (h *MutationHandler) ChangeEnrollmentStatus(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid program ID format",
		})
		return
	}
	participantID, err := uuid.Parse(c.Param("participantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid participant ID format",
		})
		return
	}

	var req reqdto.EnrollmentStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	params := commands.EnrollmentStatusParams{
		ProgramID:     programID,
		ParticipantID: participantID,
		NewStatus:     req.NewStatus,
	}
	result, err := h.engine.ChangeEnrollmentStatus(c.Request.Context(), params, principal)
	if err != nil {
		writeMutationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromMutationResult(result))
}

// @Summary Fan out a notification
// @Description Deliver one notification to every recipient, best effort per recipient
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.FanoutRequest true "Fan-out request"
// @Success 201 {object} resdto.MutationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /notifications/fanout [post]
func (h *MutationHandler) Fanout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.FanoutRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.engine.Fanout(c.Request.Context(), req.ToParams(), principal)
	if err != nil {
		writeMutationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromMutationResult(result))
}

// writeMutationError maps engine errors onto the HTTP surface. The order of
// checks mirrors the engine's precondition order.
func writeMutationError(c *gin.Context, err error) {
	var insufficient *commands.InsufficientBalanceError
	switch {
	case errors.Is(err, commands.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Validation failed",
		})
	case errors.Is(err, commands.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	case errors.Is(err, commands.ErrWorkshopNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Workshop not found",
		})
	case errors.Is(err, commands.ErrProgramNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Program not found",
		})
	case errors.Is(err, commands.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
	case errors.Is(err, commands.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Participant not found",
		})
	case errors.Is(err, commands.ErrEnrollmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Enrollment not found",
		})
	case errors.Is(err, commands.ErrOwnerNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Owner not found",
		})
	case errors.Is(err, commands.ErrBalanceNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No balance for this owner and product",
		})
	case errors.Is(err, commands.ErrNoEligibleRecipients):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "No eligible recipients",
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error": insufficient.Error(),
			"have":  insufficient.Available,
			"need":  insufficient.Required,
		})
	case errors.Is(err, commands.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Insufficient stock",
		})
	case errors.Is(err, commands.ErrIdempotencyKeyRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Idempotency key required",
		})
	case errors.Is(err, commands.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Duplicate request with different parameters",
		})
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Request is currently being processed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, commands.ErrIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
