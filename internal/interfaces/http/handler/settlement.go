package handler

import (
	"errors"
	"io"
	"net/http"

	appsettlement "github.com/cortecaja/backend/internal/application/settlement"
	"github.com/cortecaja/backend/internal/interfaces/http/dto"
	"github.com/cortecaja/backend/internal/interfaces/http/middleware"
	"github.com/cortecaja/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SettlementHandler handles cash settlement API endpoints
type SettlementHandler struct {
	BaseHandler
	service *appsettlement.Service
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(service *appsettlement.Service) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// Routes returns the settlement route group
func (h *SettlementHandler) Routes() *router.Group {
	return router.NewGroup("settlements", "/settlements").
		GET("", h.List).
		POST("", h.Create).
		GET("/summary/today", h.GetDaySummary).
		GET("/existing", h.CheckExisting).
		GET("/service-category-summary", h.ServiceCategorySummary).
		GET("/:id", h.GetByID).
		PUT("/:id/validate", h.Validate).
		GET("/:id/export", h.Export)
}

// GetDaySummary godoc
// @ID           getSettlementDaySummary
// @Summary      Preview today's totals
// @Description  Delivered orders, credit payments and the category breakdown of the worker's current civil day. Nothing is persisted.
// @Tags         settlements
// @Produce      json
// @Param        worker query    string true "Worker ID" format(uuid)
// @Success      200    {object} APIResponse[appsettlement.DaySummaryResponse]
// @Failure      400    {object} ErrorResponse
// @Failure      500    {object} ErrorResponse
// @Router       /settlements/summary/today [get]
func (h *SettlementHandler) GetDaySummary(c *gin.Context) {
	workerID, err := requiredQueryUUID(c, "worker")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summary, err := h.service.GetDaySummary(c.Request.Context(), workerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// CheckExisting godoc
// @ID           checkExistingSettlement
// @Summary      Check today's settlement
// @Description  Reports whether the worker already closed today's settlement of the given type
// @Tags         settlements
// @Produce      json
// @Param        worker query    string true "Worker ID" format(uuid)
// @Param        type   query    string true "Settlement type" Enums(daily-sales, credit-collection)
// @Success      200    {object} APIResponse[appsettlement.ExistingResponse]
// @Failure      400    {object} ErrorResponse
// @Failure      500    {object} ErrorResponse
// @Router       /settlements/existing [get]
func (h *SettlementHandler) CheckExisting(c *gin.Context) {
	workerID, err := requiredQueryUUID(c, "worker")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	existing, err := h.service.CheckExisting(c.Request.Context(), workerID, c.Query("type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, existing)
}

// Create godoc
// @ID           createSettlement
// @Summary      Close today's settlement
// @Description  Creates the worker's settlement of the given type for the current civil day. A second one for the same day is rejected.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body     appsettlement.CreateSettlementRequest true "Settlement"
// @Success      201     {object} APIResponse[appsettlement.SettlementResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      409     {object} ErrorResponse
// @Failure      500     {object} ErrorResponse
// @Router       /settlements [post]
func (h *SettlementHandler) Create(c *gin.Context) {
	var req appsettlement.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// List godoc
// @ID           listSettlements
// @Summary      List settlements
// @Description  Settlements with worker, line items and deposits, each carrying a recomputed category breakdown
// @Tags         settlements
// @Produce      json
// @Param        worker query    string false "Worker ID" format(uuid)
// @Param        type   query    string false "Settlement type" Enums(daily-sales, credit-collection)
// @Param        state  query    string false "Review state" Enums(pending, validated, rejected)
// @Param        from   query    string false "First civil day (YYYY-MM-DD)"
// @Param        to     query    string false "Last civil day (YYYY-MM-DD)"
// @Success      200    {object} APIResponse[[]appsettlement.SettlementResponse]
// @Failure      400    {object} ErrorResponse
// @Failure      500    {object} ErrorResponse
// @Router       /settlements [get]
func (h *SettlementHandler) List(c *gin.Context) {
	workerID, err := queryUUID(c, "worker")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items, err := h.service.ListAll(c.Request.Context(), appsettlement.ListFilter{
		WorkerID: workerID,
		Type:     c.Query("type"),
		State:    c.Query("state"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetByID godoc
// @ID           getSettlement
// @Summary      Get a settlement
// @Description  One settlement with its recomputed breakdown. A worker parameter restricts the lookup to that worker.
// @Tags         settlements
// @Produce      json
// @Param        id     path     string true  "Settlement ID" format(uuid)
// @Param        worker query    string false "Worker ID" format(uuid)
// @Success      200    {object} APIResponse[appsettlement.SettlementResponse]
// @Failure      400    {object} ErrorResponse
// @Failure      404    {object} ErrorResponse
// @Failure      500    {object} ErrorResponse
// @Router       /settlements/{id} [get]
func (h *SettlementHandler) GetByID(c *gin.Context) {
	id, workerID, ok := h.bindScopedID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id, workerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Validate godoc
// @ID           validateSettlement
// @Summary      Review a settlement
// @Description  Sets the review state (default validated) and notes. The checklist is only recorded in the audit log.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        id      path     string                                  true "Settlement ID" format(uuid)
// @Param        request body     appsettlement.ValidateSettlementRequest true "Review"
// @Success      200     {object} APIResponse[appsettlement.SettlementResponse]
// @Failure      400     {object} ErrorResponse
// @Failure      404     {object} ErrorResponse
// @Failure      500     {object} ErrorResponse
// @Router       /settlements/{id}/validate [put]
func (h *SettlementHandler) Validate(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid settlement ID")
		return
	}

	// every field is optional, so an empty body is a plain approval
	var req appsettlement.ValidateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleValidationError(c, err)
		return
	}

	reviewed, err := h.service.Validate(c.Request.Context(), uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reviewed)
}

// ServiceCategorySummary godoc
// @ID           getServiceCategorySummary
// @Summary      Service category dashboard
// @Description  Counts the day's settlements of a service category by review state and sums their declared totals
// @Tags         settlements
// @Produce      json
// @Param        category query    string true  "Service category"
// @Param        site     query    string false "Site ID" format(uuid)
// @Param        day      query    string false "Civil day (YYYY-MM-DD), default today"
// @Success      200      {object} APIResponse[appsettlement.ServiceCategorySummaryResponse]
// @Failure      400      {object} ErrorResponse
// @Failure      500      {object} ErrorResponse
// @Router       /settlements/service-category-summary [get]
func (h *SettlementHandler) ServiceCategorySummary(c *gin.Context) {
	siteID, err := queryUUID(c, "site")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summary, err := h.service.ServiceCategorySummary(c.Request.Context(), c.Query("category"), siteID, c.Query("day"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export godoc
// @ID           exportSettlement
// @Summary      Export a settlement statement
// @Description  Renders the settlement as an XLSX workbook or a PDF document
// @Tags         settlements
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        id     path     string true  "Settlement ID" format(uuid)
// @Param        format query    string false "Document format" Enums(xlsx, pdf) default(xlsx)
// @Param        worker query    string false "Worker ID" format(uuid)
// @Success      200    {file}   file
// @Failure      400    {object} ErrorResponse
// @Failure      404    {object} ErrorResponse
// @Failure      500    {object} ErrorResponse
// @Router       /settlements/{id}/export [get]
func (h *SettlementHandler) Export(c *gin.Context) {
	id, workerID, ok := h.bindScopedID(c)
	if !ok {
		return
	}

	doc, err := h.service.Export(c.Request.Context(), id, workerID, c.DefaultQuery("format", "xlsx"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

// bindScopedID reads the :id path parameter and the optional worker scope
func (h *SettlementHandler) bindScopedID(c *gin.Context) (uuid.UUID, *uuid.UUID, bool) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid settlement ID")
		return uuid.Nil, nil, false
	}
	workerID, err := queryUUID(c, "worker")
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, nil, false
	}
	return uuid.MustParse(uri.ID), workerID, true
}
