package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freight-dispatch/internal/usecase/load"
	"freight-dispatch/pkg/utils"
)

type LoadHandler struct {
	service *load.Service
}

func NewLoadHandler(service *load.Service) *LoadHandler {
	return &LoadHandler{service: service}
}

func (h *LoadHandler) RegisterRoutes(router *gin.RouterGroup) {
	loads := router.Group("/loads")
	{
		loads.POST("", h.CreateLoad)
		loads.GET("", h.ListLoads)
		loads.GET("/board", h.Board)
		loads.GET("/:id", h.GetLoad)
		loads.GET("/:id/transitions", h.AvailableTransitions)
		loads.POST("/:id/transition", h.Transition)
		loads.POST("/:id/invoice", h.AttachInvoice)
		loads.POST("/:id/settlement", h.AttachSettlement)
	}
}

func (h *LoadHandler) CreateLoad(c *gin.Context) {
	var req load.CreateLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.CreateLoad(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Load created successfully", result)
}

func (h *LoadHandler) GetLoad(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid load ID")
		return
	}

	result, err := h.service.GetLoad(c.Request.Context(), loadID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Load retrieved successfully", result)
}

func (h *LoadHandler) ListLoads(c *gin.Context) {
	var filter load.LoadFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.service.ListLoads(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Loads retrieved successfully", result)
}

func (h *LoadHandler) Board(c *gin.Context) {
	var filter load.LoadFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.service.Board(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Board retrieved successfully", result)
}

func (h *LoadHandler) AvailableTransitions(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid load ID")
		return
	}

	result, err := h.service.AvailableTransitions(c.Request.Context(), loadID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Transitions retrieved successfully", result)
}

func (h *LoadHandler) Transition(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid load ID")
		return
	}

	var req load.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Transition(c.Request.Context(), loadID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Load status changed successfully", result)
}

type attachInvoiceRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}

func (h *LoadHandler) AttachInvoice(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid load ID")
		return
	}

	var req attachInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.AttachInvoice(c.Request.Context(), loadID, req.InvoiceID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Invoice attached successfully", result)
}

type attachSettlementRequest struct {
	SettlementID uuid.UUID `json:"settlement_id" binding:"required"`
}

func (h *LoadHandler) AttachSettlement(c *gin.Context) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid load ID")
		return
	}

	var req attachSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.AttachSettlement(c.Request.Context(), loadID, req.SettlementID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Settlement attached successfully", result)
}
