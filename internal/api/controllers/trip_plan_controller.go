package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripplanner/internal/models/db_models"
	"tripplanner/internal/models/request_models"
	"tripplanner/internal/models/response_models"
	"tripplanner/internal/services"
	"tripplanner/pkg/middleware"
	"tripplanner/pkg/utils"
)

type TripPlanController struct {
	tripPlanService services.TripPlanServiceInterface
	exportService   services.PlanExportServiceInterface
}

func NewTripPlanController(tripPlanService services.TripPlanServiceInterface, exportService services.PlanExportServiceInterface) *TripPlanController {
	return &TripPlanController{
		tripPlanService: tripPlanService,
		exportService:   exportService,
	}
}

// GetFormOptions godoc
// @Summary Trip form options
// @Description Interest options, default interests and default trip dates
// @Tags TripPlans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /trip-plans/form [get]
func (t *TripPlanController) GetFormOptions(c *gin.Context) {
	utils.RespondSuccess(c, t.tripPlanService.FormOptions(), "Form options fetched successfully")
}

// GetTravelTips godoc
// @Summary Travel tips
// @Description Next steps to take once a plan is ready
// @Tags TripPlans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /trip-plans/tips [get]
func (t *TripPlanController) GetTravelTips(c *gin.Context) {
	utils.RespondSuccess(c, services.TravelTips(), "Travel tips fetched successfully")
}

// GenerateTravelPlan godoc
// @Summary Generate a travel plan
// @Description Runs the trip crew and stores the result as the session's current plan
// @Tags TripPlans
// @Accept json
// @Produce json
// @Param request body request_models.GenerateTripPlanRequest true "Trip details"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /trip-plans/generate [post]
func (t *TripPlanController) GenerateTravelPlan(c *gin.Context) {
	var req request_models.GenerateTripPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := t.tripPlanService.GenerateTravelPlan(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	plan.Tips = services.TravelTips()
	utils.RespondSuccess(c, plan, "Your Personalized Travel Plan")
}

// GetCurrentPlan godoc
// @Summary Current travel plan
// @Description The session's latest plan with its preferences and travel tips
// @Tags TripPlans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trip-plans/current [get]
func (t *TripPlanController) GetCurrentPlan(c *gin.Context) {
	plan, err := t.tripPlanService.GetCurrentPlan(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Travel plan fetched successfully")
}

// ClearCurrentPlan godoc
// @Summary Clear the current travel plan
// @Description Removes the session's current plan; plan history is kept
// @Tags TripPlans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /trip-plans/current [delete]
func (t *TripPlanController) ClearCurrentPlan(c *gin.Context) {
	if err := t.tripPlanService.ClearCurrentPlan(c.Request.Context(), middleware.SessionID(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Travel plan cleared successfully")
}

// DownloadPlanText godoc
// @Summary Download the current plan as text
// @Tags TripPlans
// @Produce plain
// @Success 200 {file} file "travel_plan.txt"
// @Failure 404 {object} utils.APIResponse
// @Router /trip-plans/current/download [get]
func (t *TripPlanController) DownloadPlanText(c *gin.Context) {
	t.download(c, t.exportService.ExportText)
}

// DownloadPlanICS godoc
// @Summary Download the current plan as an iCalendar event
// @Tags TripPlans
// @Produce text/calendar
// @Success 200 {file} file "travel_plan.ics"
// @Failure 404 {object} utils.APIResponse
// @Router /trip-plans/current/download.ics [get]
func (t *TripPlanController) DownloadPlanICS(c *gin.Context) {
	t.download(c, t.exportService.ExportICS)
}

// DownloadPlanPDF godoc
// @Summary Download the current plan as PDF
// @Tags TripPlans
// @Produce application/pdf
// @Success 200 {file} file "travel_plan.pdf"
// @Failure 404 {object} utils.APIResponse
// @Router /trip-plans/current/download.pdf [get]
func (t *TripPlanController) DownloadPlanPDF(c *gin.Context) {
	t.download(c, t.exportService.ExportPDF)
}

func (t *TripPlanController) download(c *gin.Context, export func(*db_models.SessionPlan) (*response_models.ExportFile, error)) {
	plan, err := t.tripPlanService.GetCurrentSessionPlan(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	file, err := export(plan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// ListPlanHistory godoc
// @Summary Plan history
// @Description Persisted plans of the session, newest first
// @Tags TripPlans
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size (1-100)" default(10)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /trip-plans/history [get]
func (t *TripPlanController) ListPlanHistory(c *gin.Context) {
	req := request_models.ListTripPlansRequest{Page: 1, PageSize: 10}
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page or page size")
		return
	}

	plans, err := t.tripPlanService.ListPlanHistory(c.Request.Context(), middleware.SessionID(c), req.Page, req.PageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plans, "Travel plans fetched successfully")
}

// GetPlanHistoryItem godoc
// @Summary One plan from the history
// @Description A persisted plan of the session by id
// @Tags TripPlans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trip-plans/history/{id} [get]
func (t *TripPlanController) GetPlanHistoryItem(c *gin.Context) {
	planId := c.Param("id")
	if planId == "" {
		utils.RespondError(c, http.StatusBadRequest, "Plan ID is required")
		return
	}

	plan, err := t.tripPlanService.GetPlanHistoryItem(c.Request.Context(), middleware.SessionID(c), planId)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, plan, "Travel plan fetched successfully")
}
