package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"freight-dispatch/internal/domain/carrier"
	"freight-dispatch/internal/domain/driver"
	"freight-dispatch/internal/domain/load"
	"freight-dispatch/internal/domain/vehicle"
	appErrors "freight-dispatch/pkg/errors"
	"freight-dispatch/pkg/utils"
)

// ResourceHandler serves the candidate pools the assignment UI picks from.
// Candidates are always scoped to a carrier pool: the load's own when a
// load_id is supplied, otherwise an explicit carrier_id, otherwise the own
// fleet.
type ResourceHandler struct {
	loadRepo    load.Repository
	driverRepo  driver.Repository
	vehicleRepo vehicle.Repository
	carrierRepo carrier.Repository
}

func NewResourceHandler(
	loadRepo load.Repository,
	driverRepo driver.Repository,
	vehicleRepo vehicle.Repository,
	carrierRepo carrier.Repository,
) *ResourceHandler {
	return &ResourceHandler{
		loadRepo:    loadRepo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		carrierRepo: carrierRepo,
	}
}

func (h *ResourceHandler) RegisterRoutes(router *gin.RouterGroup) {
	resources := router.Group("/resources")
	{
		resources.GET("/drivers", h.ListDrivers)
		resources.GET("/trucks", h.ListTrucks)
		resources.GET("/trailers", h.ListTrailers)
	}

	router.GET("/carriers", h.ListCarriers)
}

type driverCandidate struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Phone     *string    `json:"phone,omitempty"`
	CarrierID *uuid.UUID `json:"carrier_id,omitempty"`
}

type vehicleCandidate struct {
	ID         uuid.UUID  `json:"id"`
	UnitNumber string     `json:"unit_number"`
	CarrierID  *uuid.UUID `json:"carrier_id,omitempty"`
}

type carrierResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	MCNumber *string   `json:"mc_number,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
}

func (h *ResourceHandler) ListDrivers(c *gin.Context) {
	carrierID, ok := h.resolvePool(c)
	if !ok {
		return
	}

	drivers, err := h.driverRepo.ListAssignable(c.Request.Context(), carrierID)
	if err != nil {
		respondError(c, err)
		return
	}

	candidates := make([]driverCandidate, len(drivers))
	for i, d := range drivers {
		candidates[i] = driverCandidate{
			ID:        d.ID,
			Name:      d.FullName(),
			Phone:     d.Phone,
			CarrierID: d.CarrierID,
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", candidates)
}

func (h *ResourceHandler) ListTrucks(c *gin.Context) {
	h.listVehicles(c, vehicle.TypeTruck)
}

func (h *ResourceHandler) ListTrailers(c *gin.Context) {
	h.listVehicles(c, vehicle.TypeTrailer)
}

func (h *ResourceHandler) listVehicles(c *gin.Context, vtype vehicle.VehicleType) {
	carrierID, ok := h.resolvePool(c)
	if !ok {
		return
	}

	vehicles, err := h.vehicleRepo.ListAssignable(c.Request.Context(), vtype, carrierID)
	if err != nil {
		respondError(c, err)
		return
	}

	candidates := make([]vehicleCandidate, len(vehicles))
	for i, v := range vehicles {
		candidates[i] = vehicleCandidate{
			ID:         v.ID,
			UnitNumber: v.UnitNumber,
			CarrierID:  v.CarrierID,
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved successfully", candidates)
}

func (h *ResourceHandler) ListCarriers(c *gin.Context) {
	carriers, err := h.carrierRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]carrierResponse, len(carriers))
	for i, cr := range carriers {
		responses[i] = carrierResponse{
			ID:       cr.ID,
			Name:     cr.Name,
			MCNumber: cr.MCNumber,
			Phone:    cr.Phone,
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Carriers retrieved successfully", responses)
}

// resolvePool determines which carrier pool candidates come from. Reports
// false after writing the error response itself.
func (h *ResourceHandler) resolvePool(c *gin.Context) (*uuid.UUID, bool) {
	if raw := c.Query("load_id"); raw != "" {
		loadID, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid load ID")
			return nil, false
		}

		l, err := h.loadRepo.GetByID(c.Request.Context(), loadID)
		if err != nil {
			if errors.Is(err, load.ErrLoadNotFound) {
				respondError(c, appErrors.NewAppError(appErrors.CodeNotFound, "load not found", err))
				return nil, false
			}
			respondError(c, err)
			return nil, false
		}

		return l.CarrierID, true
	}

	if raw := c.Query("carrier_id"); raw != "" {
		carrierID, err := uuid.Parse(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid carrier ID")
			return nil, false
		}
		return &carrierID, true
	}

	return nil, true
}
