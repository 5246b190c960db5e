package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/artifact"
	"github.com/leadshield/scanner-platform/internal/infra/logger"
	"github.com/leadshield/scanner-platform/internal/usecase"
)

// EmbedHandler serves the rendered deployment bundle of a scanner: the
// hosted scan page, its stylesheet and script, and the API docs.
type EmbedHandler struct {
	provisioning *usecase.ProvisioningService
	generator    *artifact.Generator
}

// NewEmbedHandler constructs EmbedHandler.
func NewEmbedHandler(provisioning *usecase.ProvisioningService, generator *artifact.Generator) *EmbedHandler {
	return &EmbedHandler{provisioning: provisioning, generator: generator}
}

// RegisterRoutes binds the bundle routes under the scanner group.
func (h *EmbedHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/:uid/embed", h.serve(artifact.MarkupFile, "text/html; charset=utf-8"))
	r.GET("/:uid/styles.css", h.serve(artifact.StylesFile, "text/css; charset=utf-8"))
	r.GET("/:uid/script.js", h.serve(artifact.ScriptFile, "text/javascript; charset=utf-8"))
	r.GET("/:uid/docs", h.serve(artifact.DocsFile, "text/markdown; charset=utf-8"))
}

// serve returns a handler for one bundle file. Before serving it re-renders
// the bundle if the stored branding is newer than the files on disk, so a
// customization is visible on the next page load.
func (h *EmbedHandler) serve(name, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.Param("uid")

		if _, err := h.provisioning.RefreshArtifacts(c.Request.Context(), uid); err != nil {
			logger.WithContext(c.Request.Context()).Warn("refresh bundle",
				zap.String("scanner_uid", uid), zap.Error(err))
		}

		path := filepath.Join(h.generator.BundleDir(uid), name)
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, ScanErrorResponse{Status: "error", Message: "scanner not found"})
			return
		}
		c.Header("Content-Type", contentType)
		c.File(path)
	}
}
