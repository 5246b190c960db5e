package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadshield/scanner-platform/internal/transport/http/middleware"
	"github.com/leadshield/scanner-platform/internal/usecase"
)

// CustomizeHandler owns the authenticated scanner provisioning endpoints.
type CustomizeHandler struct {
	provisioning *usecase.ProvisioningService
}

// NewCustomizeHandler constructs CustomizeHandler.
func NewCustomizeHandler(provisioning *usecase.ProvisioningService) *CustomizeHandler {
	return &CustomizeHandler{provisioning: provisioning}
}

// RegisterRoutes binds the provisioning routes. All of them require a
// session.
func (h *CustomizeHandler) RegisterRoutes(r *gin.RouterGroup, middlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, middlewares...)
	r.POST("/customize", append(chain, h.customize)...)
	r.POST("/customize/api-key", append(chain, h.rotateAPIKey)...)
}

var customizeErrorCases = []ErrorCase{
	{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid customization payload"},
	{Err: usecase.ErrClientNotFound, Status: http.StatusNotFound, Message: "client not found"},
}

func (h *CustomizeHandler) customize(c *gin.Context) {
	user, ok := middleware.SessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CustomizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "businessName and businessDomain are required"))
		return
	}

	deployment, err := h.provisioning.Customize(c.Request.Context(), user.ID, usecase.CustomizeInput{
		BusinessName:   req.BusinessName,
		BusinessDomain: req.BusinessDomain,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		Tier:           req.Tier,
		ScannerName:    req.ScannerName,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		ButtonColor:    req.ButtonColor,
		LogoPath:       req.LogoPath,
		FaviconPath:    req.FaviconPath,
		ScanTypes:      req.ScanTypes,
	})
	if err != nil {
		RespondWithMappedError(c, err, customizeErrorCases, http.StatusInternalServerError, "failed to provision scanner")
		return
	}

	c.JSON(http.StatusOK, deployment)
}

func (h *CustomizeHandler) rotateAPIKey(c *gin.Context) {
	user, ok := middleware.SessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	key, err := h.provisioning.RegenerateAPIKeyForUser(c.Request.Context(), user.ID)
	if err != nil {
		RespondWithMappedError(c, err, customizeErrorCases, http.StatusInternalServerError, "failed to rotate api key")
		return
	}

	c.JSON(http.StatusOK, gin.H{"apiKey": key})
}
