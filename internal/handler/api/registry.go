package api

import (
	"errors"
	"net/http"

	"relief-ledger/internal/domain/product"
	"relief-ledger/internal/domain/workshop"
	reqdto "relief-ledger/internal/handler/dto/request"
	resdto "relief-ledger/internal/handler/dto/response"
	"relief-ledger/internal/handler/middleware"
	"relief-ledger/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RegistryHandler struct {
	registryUseCase usecase.RegistryUseCase
}

func NewRegistryHandler(registryUseCase usecase.RegistryUseCase) *RegistryHandler {
	return &RegistryHandler{
		registryUseCase: registryUseCase,
	}
}

// @Summary Create product
// @Description Add a product to the catalog (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateProductRequest true "Product"
// @Success 201 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /products [post]
func (h *RegistryHandler) CreateProduct(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	p, err := h.registryUseCase.CreateProduct(c.Request.Context(), principal, req.Name, req.SKU, req.Stock, req.PriceCents, req.Category)
	if err != nil {
		writeRegistryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromProduct(p))
}

// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ProductResponse
// @Router /products [get]
func (h *RegistryHandler) ListProducts(c *gin.Context) {
	products, err := h.registryUseCase.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	response := make([]*resdto.ProductResponse, len(products))
	for i, p := range products {
		response[i] = resdto.FromProduct(p)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.ProductResponse
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (h *RegistryHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	p, err := h.registryUseCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeRegistryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromProduct(p))
}

// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body reqdto.UpdateProductRequest true "Product"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [put]
func (h *RegistryHandler) UpdateProduct(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req reqdto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	p := product.ReconstructProduct(id, req.Name, req.SKU, req.Stock, req.PriceCents, req.Category)
	if err := h.registryUseCase.UpdateProduct(c.Request.Context(), principal, p); err != nil {
		writeRegistryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromProduct(p))
}

// @Summary Delete product
// @Tags products
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /products/{id} [delete]
func (h *RegistryHandler) DeleteProduct(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if err := h.registryUseCase.DeleteProduct(c.Request.Context(), principal, id); err != nil {
		writeRegistryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Create workshop
// @Description Create a workshop conducted by the caller
// @Tags workshops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateWorkshopRequest true "Workshop"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /workshops [post]
func (h *RegistryHandler) CreateWorkshop(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	w, err := h.registryUseCase.CreateWorkshop(c.Request.Context(), principal, req.Title, req.Location, req.ScheduledAt)
	if err != nil {
		writeRegistryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: w.ID()})
}

// @Summary Register attendance
// @Description Record a participant's attendance status for a workshop
// @Tags workshops
// @Accept json
// @Security BearerAuth
// @Param id path string true "Workshop ID"
// @Param request body reqdto.RegisterAttendanceRequest true "Attendance"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /workshops/{id}/attendance [post]
func (h *RegistryHandler) RegisterAttendance(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	workshopID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workshop ID format"})
		return
	}

	var req reqdto.RegisterAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	status, err := workshop.NewAttendanceStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance status"})
		return
	}

	if err := h.registryUseCase.RegisterAttendance(c.Request.Context(), principal, workshopID, req.ParticipantID, status); err != nil {
		writeRegistryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Create participant
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateParticipantRequest true "Participant"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /participants [post]
func (h *RegistryHandler) CreateParticipant(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.registryUseCase.CreateParticipant(c.Request.Context(), principal, req.FullName)
	if err != nil {
		writeRegistryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Create program
// @Description Create a program coordinated by the caller
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateProgramRequest true "Program"
// @Success 201 {object} resdto.CreatedResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /programs [post]
func (h *RegistryHandler) CreateProgram(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.registryUseCase.CreateProgram(c.Request.Context(), principal, req.Name)
	if err != nil {
		writeRegistryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
}

// @Summary Enroll participant
// @Description Enroll a participant into a program with status "enrolled"
// @Tags programs
// @Accept json
// @Security BearerAuth
// @Param id path string true "Program ID"
// @Param request body reqdto.EnrollRequest true "Enrollment"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /programs/{id}/enrollments [post]
func (h *RegistryHandler) EnrollParticipant(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program ID format"})
		return
	}

	var req reqdto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.registryUseCase.EnrollParticipant(c.Request.Context(), principal, programID, req.ParticipantID); err != nil {
		writeRegistryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func writeRegistryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrRegistryForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, usecase.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, usecase.ErrUnknownTarget):
		c.JSON(http.StatusNotFound, gin.H{"error": "Program or participant not found"})
	case errors.Is(err, usecase.ErrDuplicateSKU):
		c.JSON(http.StatusConflict, gin.H{"error": "SKU already exists"})
	case errors.Is(err, usecase.ErrAlreadyEnrolled):
		c.JSON(http.StatusConflict, gin.H{"error": "Participant already enrolled"})
	case errors.Is(err, usecase.ErrProductReferenced):
		c.JSON(http.StatusConflict, gin.H{"error": "Product is referenced by workshop usage"})
	case errors.Is(err, product.ErrInvalidName), errors.Is(err, product.ErrInvalidSKU),
		errors.Is(err, product.ErrNegativeStock), errors.Is(err, product.ErrNegativePrice),
		errors.Is(err, workshop.ErrInvalidTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
