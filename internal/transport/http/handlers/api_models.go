package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadshield/scanner-platform/internal/core/domain"
	"github.com/leadshield/scanner-platform/internal/infra/logger"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response carrying the request id.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	requestID, _ := c.Request.Context().Value(logger.RequestIDKey{}).(string)
	return ErrorResponse{
		Error:     errorMsg,
		RequestID: requestID,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// RegisterRequest defines the payload for account creation.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ChangePasswordRequest defines the payload for a credential update.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	Token     string      `json:"token"`
	User      UserSummary `json:"user"`
	ExpiresIn int64       `json:"expires_in"`
}

// UserSummary describes a minimal view of a user returned by the API.
type UserSummary struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
}

// ScanSubmissionRequest is the public scan widget payload.
type ScanSubmissionRequest struct {
	TargetURL   string   `json:"targetUrl" binding:"required"`
	ContactMail string   `json:"contactEmail" binding:"required"`
	ContactName string   `json:"contactName"`
	Phone       string   `json:"phone"`
	Company     string   `json:"company"`
	CompanySize string   `json:"companySize"`
	ScanTypes   []string `json:"scanTypes"`
}

// ScanAcceptedResponse acknowledges an ingested submission.
type ScanAcceptedResponse struct {
	Status string `json:"status"`
	ScanID string `json:"scanId"`
}

// ScanErrorResponse is the widget-facing error shape.
type ScanErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CustomizeRequest creates or updates a client's scanner.
type CustomizeRequest struct {
	BusinessName   string   `json:"businessName" binding:"required"`
	BusinessDomain string   `json:"businessDomain" binding:"required"`
	ContactEmail   string   `json:"contactEmail"`
	ContactPhone   string   `json:"contactPhone"`
	Tier           string   `json:"subscriptionTier"`
	ScannerName    string   `json:"scannerName"`
	PrimaryColor   string   `json:"primaryColor"`
	SecondaryColor string   `json:"secondaryColor"`
	ButtonColor    string   `json:"buttonColor"`
	LogoPath       string   `json:"logoPath"`
	FaviconPath    string   `json:"faviconPath"`
	ScanTypes      []string `json:"scanTypes"`
}
