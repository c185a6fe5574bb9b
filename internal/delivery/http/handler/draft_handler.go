package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freight-dispatch/internal/usecase/draft"
	"freight-dispatch/pkg/utils"
)

type DraftHandler struct {
	service *draft.Service
}

func NewDraftHandler(service *draft.Service) *DraftHandler {
	return &DraftHandler{service: service}
}

func (h *DraftHandler) RegisterRoutes(router *gin.RouterGroup) {
	drafts := router.Group("/drafts")
	{
		drafts.GET("", h.ListPending)
		drafts.POST("/:id/approve", h.Approve)
		drafts.POST("/:id/reject", h.Reject)
	}
}

func (h *DraftHandler) ListPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.service.ListPending(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Drafts retrieved successfully", result)
}

func (h *DraftHandler) Approve(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid draft ID")
		return
	}

	// The body is optional: a draft whose payload already carries the
	// customer needs no extra input.
	var req draft.ApproveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Approve(c.Request.Context(), draftID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Draft approved successfully", result)
}

func (h *DraftHandler) Reject(c *gin.Context) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid draft ID")
		return
	}

	result, err := h.service.Reject(c.Request.Context(), draftID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Draft rejected successfully", result)
}
