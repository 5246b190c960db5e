package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadshield/scanner-platform/internal/core/port"
	"github.com/leadshield/scanner-platform/internal/repository"
	"github.com/leadshield/scanner-platform/internal/transport/http/middleware"
	"github.com/leadshield/scanner-platform/internal/usecase"
)

// ScanHandler exposes the public scan submission endpoint consumed by
// embedded scanner widgets, plus an authenticated variant for owners
// running scans from the dashboard.
type ScanHandler struct {
	pipeline *usecase.ScanIngestionPipeline
	clients  port.ClientRepository
}

// NewScanHandler constructs ScanHandler.
func NewScanHandler(pipeline *usecase.ScanIngestionPipeline, clients port.ClientRepository) *ScanHandler {
	return &ScanHandler{pipeline: pipeline, clients: clients}
}

// RegisterRoutes binds the submission route under the scanner group.
func (h *ScanHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/:uid/scan", h.submit)
}

// RegisterOwnerRoutes binds the session-gated submission route used by
// authenticated clients scanning a target directly.
func (h *ScanHandler) RegisterOwnerRoutes(r *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, middlewares...)
	r.POST("/scan", append(chain, h.submitAsOwner)...)
}

// submit accepts a widget submission. A visitor always receives either a
// scan id or a clear validation message.
func (h *ScanHandler) submit(c *gin.Context) {
	uid := c.Param("uid")

	var req ScanSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ScanErrorResponse{
			Status:  "error",
			Message: "targetUrl and contactEmail are required",
		})
		return
	}

	record, err := h.pipeline.IngestForScanner(c.Request.Context(), uid, usecase.Submission{
		TargetURL:   req.TargetURL,
		ContactName: req.ContactName,
		ContactMail: req.ContactMail,
		Phone:       req.Phone,
		Company:     req.Company,
		CompanySize: req.CompanySize,
		ScanTypes:   req.ScanTypes,
	})
	if err != nil {
		status, message := mapScanError(err)
		c.JSON(status, ScanErrorResponse{Status: "error", Message: message})
		return
	}

	c.JSON(http.StatusAccepted, ScanAcceptedResponse{
		Status: "accepted",
		ScanID: record.ID,
	})
}

// submitAsOwner runs a scan attributed directly to the caller's client
// record, with no originating scanner.
func (h *ScanHandler) submitAsOwner(c *gin.Context) {
	user, ok := middleware.SessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ScanSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "targetUrl and contactEmail are required"))
		return
	}

	client, err := h.clients.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "client not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "scan could not be processed"))
		return
	}

	record, err := h.pipeline.IngestForClient(c.Request.Context(), client.ID, usecase.Submission{
		TargetURL:   req.TargetURL,
		ContactName: req.ContactName,
		ContactMail: req.ContactMail,
		Phone:       req.Phone,
		Company:     req.Company,
		CompanySize: req.CompanySize,
		ScanTypes:   req.ScanTypes,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrValidation) {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "scan could not be processed"))
		return
	}

	c.JSON(http.StatusAccepted, ScanAcceptedResponse{
		Status: "accepted",
		ScanID: record.ID,
	})
}

func mapScanError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, usecase.ErrScannerNotFound):
		return http.StatusNotFound, "scanner not found"
	case errors.Is(err, usecase.ErrScannerInactive):
		return http.StatusGone, "this scanner is no longer accepting submissions"
	default:
		return http.StatusInternalServerError, "scan could not be processed"
	}
}
