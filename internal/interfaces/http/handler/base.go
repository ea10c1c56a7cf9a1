// Package handler implements the report API endpoints.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/export"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/domain/shared"
	"github.com/erp/pos-reports/internal/infrastructure/logger"
	"github.com/erp/pos-reports/internal/interfaces/http/dto"
	"github.com/erp/pos-reports/internal/interfaces/http/middleware"
)

// ArtifactLocationHeader carries the archive location of an exported file
const ArtifactLocationHeader = "X-Artifact-Location"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the status of code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// HandleError maps err to a response. Report errors keep their operator
// message; anything unrecognized becomes a 500 without details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		middleware.HandleValidationError(c, err)
		return
	}

	if errors.Is(err, reportapp.ErrWorkspaceNotFound) {
		h.Error(c, dto.ErrCodeWorkspaceNotFound, reportapp.ErrWorkspaceNotFound.Message)
		return
	}

	var reportErr *report.ReportError
	if errors.As(err, &reportErr) {
		code := dto.ReportErrorCode(reportErr.Kind)
		if dto.GetHTTPStatus(code) >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Report request failed", zap.Error(err))
		}
		h.Error(c, code, dto.UserMessage(err))
		return
	}

	if domainErr, ok := shared.AsDomainError(err); ok {
		h.BadRequest(c, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.Error(c, dto.ErrCodeInternal, "An unexpected error occurred")
}

// bindError answers a failed ShouldBind* call
func (h *BaseHandler) bindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.BadRequest(c, "Invalid request: "+err.Error())
}

// sendArtifact writes an exported file as a download
func (h *BaseHandler) sendArtifact(c *gin.Context, a *export.Artifact) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
	if a.Location != "" {
		c.Header(ArtifactLocationHeader, a.Location)
	}
	if !a.GeneratedAt.IsZero() {
		c.Header("Last-Modified", a.GeneratedAt.UTC().Format(http.TimeFormat))
	}
	c.Data(http.StatusOK, a.MIMEType, a.Data)
}

// clock is embedded by handlers that stamp responses
type clock struct {
	now func() time.Time
}

func (c clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
