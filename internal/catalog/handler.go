package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Provider *Provider
}

func NewHandler(provider *Provider) *Handler {
	return &Handler{Provider: provider}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/catalog/fonts", h.fonts)
	public.GET("/catalog/fonts/:id", h.font)
	protected.POST("/catalog/api-key", h.setAPIKey)
	protected.POST("/catalog/validate-key", h.validateKey)
}

func (h *Handler) fonts(c *gin.Context) {
	ctx := c.Request.Context()

	builtin, err := h.Provider.BuiltinFonts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog failed"})
		return
	}
	remote, err := h.Provider.RemoteFonts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"builtin": builtin, "remote": remote})
}

func (h *Handler) font(c *gin.Context) {
	f, err := h.Provider.Font(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog failed"})
		return
	}
	if f == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, f)
}

type apiKeyReq struct {
	Key string `json:"key"`
}

func (h *Handler) setAPIKey(c *gin.Context) {
	var req apiKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Provider.SetAPIKey(c.Request.Context(), req.Key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	// A new key can change the visible remote set.
	if err := h.Provider.InvalidateFontCaches(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache invalidation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// validateKey is the one place a catalog fetch failure surfaces to the
// caller instead of silently falling back.
func (h *Handler) validateKey(c *gin.Context) {
	var req apiKeyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": h.Provider.ValidateAPIKey(c.Request.Context(), req.Key)})
}
