package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainLoad "freight-dispatch/internal/domain/load"
	"freight-dispatch/internal/usecase/dispatch"
	loadUsecase "freight-dispatch/internal/usecase/load"
	"freight-dispatch/pkg/utils"
)

type DispatchHandler struct {
	service *dispatch.Service
}

func NewDispatchHandler(service *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{service: service}
}

func (h *DispatchHandler) RegisterRoutes(router *gin.RouterGroup) {
	loads := router.Group("/loads")
	{
		loads.POST("/:id/assign-driver", h.AssignDriver)
		loads.POST("/:id/assign-truck", h.AssignTruck)
		loads.POST("/:id/assign-trailer", h.AssignTrailer)
		loads.POST("/:id/carrier", h.ChangeCarrier)
	}

	router.GET("/dispatch/conflicts", h.FindConflicts)
}

// assignRequest carries a nullable resource id: null clears the slot.
type assignRequest struct {
	ResourceID *uuid.UUID `json:"resource_id"`
}

type assignmentResponse struct {
	Load       *loadUsecase.LoadResponse `json:"load"`
	Assigned   string                    `json:"assigned"`
	AutoFilled []string                  `json:"auto_filled"`
	NoOp       bool                      `json:"no_op"`
}

func toAssignmentResponse(res *dispatch.AssignmentResult) *assignmentResponse {
	autoFilled := res.AutoFilled
	if autoFilled == nil {
		autoFilled = []string{}
	}
	return &assignmentResponse{
		Load:       loadUsecase.ToLoadResponse(res.Load),
		Assigned:   res.Assigned,
		AutoFilled: autoFilled,
		NoOp:       res.NoOp,
	}
}

func (h *DispatchHandler) AssignDriver(c *gin.Context) {
	h.assign(c, h.service.AssignDriverFirst)
}

func (h *DispatchHandler) AssignTruck(c *gin.Context) {
	h.assign(c, h.service.AssignTruckFirst)
}

func (h *DispatchHandler) AssignTrailer(c *gin.Context) {
	h.assign(c, h.service.AssignTrailer)
}

func (h *DispatchHandler) ChangeCarrier(c *gin.Context) {
	h.assign(c, h.service.ChangeCarrier)
}

func (h *DispatchHandler) assign(
	c *gin.Context,
	op func(ctx context.Context, loadID uuid.UUID, resourceID *uuid.UUID) (*dispatch.AssignmentResult, error),
) {
	loadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid load ID")
		return
	}

	// A null or absent resource_id clears the slot.
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := op(c.Request.Context(), loadID, req.ResourceID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment committed successfully", toAssignmentResponse(result))
}

type conflictQuery struct {
	Kind          string     `form:"kind" binding:"required"`
	ResourceID    uuid.UUID  `form:"resource_id" binding:"required"`
	RangeStart    time.Time  `form:"range_start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	RangeEnd      time.Time  `form:"range_end" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	ExcludeLoadID *uuid.UUID `form:"exclude_load_id"`
}

func (h *DispatchHandler) FindConflicts(c *gin.Context) {
	var q conflictQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	conflicts, err := h.service.FindConflicts(
		c.Request.Context(),
		domainLoad.ResourceKind(q.Kind),
		q.ResourceID,
		q.RangeStart,
		q.RangeEnd,
		q.ExcludeLoadID,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	if conflicts == nil {
		conflicts = []dispatch.ConflictingLoad{}
	}

	utils.SuccessResponse(c, http.StatusOK, "Conflicts retrieved successfully", gin.H{
		"conflicts": conflicts,
	})
}
