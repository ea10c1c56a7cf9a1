package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/export"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/interfaces/http/dto"
	"github.com/erp/pos-reports/internal/interfaces/http/middleware"
)

// Workspaces stores one report controller per open workspace
type Workspaces interface {
	Create(t report.Type) (uuid.UUID, *reportapp.Controller, error)
	Get(id uuid.UUID) (*reportapp.Controller, error)
	Delete(id uuid.UUID)
}

// WorkspaceHandler serves the stateful flow: open a workspace, adjust its
// filters, generate, then export the last generated report.
type WorkspaceHandler struct {
	BaseHandler
	workspaces   Workspaces
	maxBodyBytes int64
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaces Workspaces) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces:   workspaces,
		maxBodyBytes: middleware.DefaultMaxBodyBytes,
	}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *WorkspaceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ws := rg.Group("/workspaces")
	limit := middleware.BodyLimit(h.maxBodyBytes)

	ws.POST("", limit, h.Create)
	ws.GET("/:id", h.Get)
	ws.PUT("/:id/filters", limit, h.UpdateFilters)
	ws.POST("/:id/generate", h.Generate)
	ws.GET("/:id/export", h.Export)
	ws.DELETE("/:id", h.Delete)
}

// Create godoc
// @ID           createWorkspace
// @Summary      Open a report workspace
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateWorkspaceRequest true "Report type and initial filters"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	dateRange, err := req.DateRange()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	id, ctrl, err := h.workspaces.Create(report.Type(req.Type))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if req.Subtype != "" {
		if err := ctrl.SetSubtype(report.Subtype(req.Subtype)); err != nil {
			h.workspaces.Delete(id)
			h.HandleError(c, err)
			return
		}
	}
	ctrl.SetDateRange(dateRange)
	ctrl.SetCategory(req.CategoryID)
	ctrl.SetBranch(req.BranchID)

	h.Created(c, dto.NewWorkspaceResponse(id, ctrl.Snapshot()))
}

// Get godoc
// @ID           getWorkspace
// @Summary      Get workspace state and the last generated report
// @Tags         workspaces
// @Produce      json
// @Param        id path string true "Workspace ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /workspaces/{id} [get]
func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}
	h.Success(c, dto.NewWorkspaceResponse(id, ctrl.Snapshot()))
}

// UpdateFilters godoc
// @ID           updateWorkspaceFilters
// @Summary      Replace the workspace filters
// @Description  A type change discards the current report and resets the subtype.
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Workspace ID"
// @Param        request body dto.UpdateFiltersRequest true "Filters"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /workspaces/{id}/filters [put]
func (h *WorkspaceHandler) UpdateFilters(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}
	var req dto.UpdateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	dateRange, err := req.DateRange()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	subtype := report.Subtype(req.Subtype)
	if req.Subtype != "" {
		target := ctrl.Request().Type
		if req.Type != "" {
			target = report.Type(req.Type)
		}
		if !report.IsValidSubtype(target, subtype) {
			h.HandleError(c, report.NewInvalidSubtypeError(target, subtype))
			return
		}
	}

	if req.Type != "" {
		if err := ctrl.SetType(report.Type(req.Type)); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	if req.Subtype != "" {
		if err := ctrl.SetSubtype(subtype); err != nil {
			h.HandleError(c, err)
			return
		}
	}
	ctrl.SetDateRange(dateRange)
	ctrl.SetCategory(req.CategoryID)
	ctrl.SetBranch(req.BranchID)

	h.Success(c, dto.NewWorkspaceResponse(id, ctrl.Snapshot()))
}

// Generate godoc
// @ID           generateWorkspaceReport
// @Summary      Generate the report for the current filters
// @Description  If another generation starts before this one returns, this call answers 409 and its result is dropped.
// @Tags         workspaces
// @Produce      json
// @Param        id path string true "Workspace ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      502 {object} dto.Response
// @Router       /workspaces/{id}/generate [post]
func (h *WorkspaceHandler) Generate(c *gin.Context) {
	id, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}
	if _, err := ctrl.Generate(c.Request.Context(), middleware.GetSession(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewWorkspaceResponse(id, ctrl.Snapshot()))
}

// Export godoc
// @ID           exportWorkspaceReport
// @Summary      Download the last generated report
// @Tags         workspaces
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id     path  string true "Workspace ID"
// @Param        format query string true "pdf or xlsx"
// @Success      200 {file} binary
// @Failure      409 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Router       /workspaces/{id}/export [get]
func (h *WorkspaceHandler) Export(c *gin.Context) {
	_, ctrl, ok := h.lookup(c)
	if !ok {
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)
		return
	}
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if ctrl.Snapshot().Loading {
		h.Error(c, dto.ErrCodeReportLoading, "The report is still being generated")
		return
	}

	artifact, err := ctrl.Export(c.Request.Context(), middleware.GetSession(c), format)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendArtifact(c, artifact)
}

// Delete godoc
// @ID           deleteWorkspace
// @Summary      Close a workspace
// @Tags         workspaces
// @Param        id path string true "Workspace ID"
// @Success      204
// @Router       /workspaces/{id} [delete]
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.HandleError(c, reportapp.ErrWorkspaceNotFound)
		return
	}
	h.workspaces.Delete(id)
	h.NoContent(c)
}

// lookup resolves the :id parameter. Malformed IDs answer 404 like unknown ones.
func (h *WorkspaceHandler) lookup(c *gin.Context) (uuid.UUID, *reportapp.Controller, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.HandleError(c, reportapp.ErrWorkspaceNotFound)
		return uuid.Nil, nil, false
	}
	ctrl, err := h.workspaces.Get(id)
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, nil, false
	}
	return id, ctrl, true
}
