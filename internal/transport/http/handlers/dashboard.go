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

// DashboardHandler serves the authenticated per-client dashboard.
type DashboardHandler struct {
	aggregator *usecase.DashboardAggregator
	clients    port.ClientRepository
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(aggregator *usecase.DashboardAggregator, clients port.ClientRepository) *DashboardHandler {
	return &DashboardHandler{aggregator: aggregator, clients: clients}
}

// RegisterRoutes binds the dashboard route behind the session middleware.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, middlewares...)
	r.GET("/dashboard", append(chain, h.view)...)
}

func (h *DashboardHandler) view(c *gin.Context) {
	user, ok := middleware.SessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	client, err := h.clients.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		// A user who never customized a scanner has no client record yet.
		// They still get an empty, well-formed dashboard.
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, usecase.EmptyDashboardView())
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load dashboard"))
		return
	}

	view, err := h.aggregator.View(c.Request.Context(), client.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load dashboard"))
		return
	}

	c.JSON(http.StatusOK, view)
}
