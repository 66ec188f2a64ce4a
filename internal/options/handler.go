package options

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FontCacheInvalidator drops the catalog caches; satisfied by the catalog
// provider. Saving settings can orphan cached per-variant stylesheet
// state, so both go together.
type FontCacheInvalidator interface {
	InvalidateFontCaches(ctx context.Context) error
}

type Handler struct {
	Registry *Registry
	Resolver *Resolver
	Pipeline *Pipeline
	Fonts    FontCacheInvalidator
}

func NewHandler(registry *Registry, resolver *Resolver, pipeline *Pipeline, fonts FontCacheInvalidator) *Handler {
	return &Handler{Registry: registry, Resolver: resolver, Pipeline: pipeline, Fonts: fonts}
}

// RegisterRoutes attaches the read surface to public and the save surface
// to protected (auth + nonce are applied by the caller).
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/settings", h.get)
	public.GET("/settings/slots", h.slots)
	public.GET("/settings/tabs", h.tabs)
	protected.POST("/settings", h.save)
}

func (h *Handler) get(c *gin.Context) {
	useCache := c.Query("customizer") != "1"
	effective, err := h.Resolver.Effective(c.Request.Context(), useCache)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}
	c.JSON(http.StatusOK, effective)
}

func (h *Handler) slots(c *gin.Context) {
	slots, err := h.Registry.AllSlots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list slots failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *Handler) tabs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tabs": Tabs()})
}

func (h *Handler) save(c *gin.Context) {
	var payload map[string]json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req := &Request{
		Payload:    payload,
		Customizer: c.Query("customizer") == "1",
	}

	valid, err := h.Pipeline.Apply(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validate failed"})
		return
	}
	if err := h.Resolver.SaveStored(c.Request.Context(), valid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	if h.Fonts != nil {
		if err := h.Fonts.InvalidateFontCaches(c.Request.Context()); err != nil {
			log.Printf("[options] font cache invalidation failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, valid)
}
