package frontend

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Renderer *Renderer
}

func NewHandler(renderer *Renderer) *Handler {
	return &Handler{Renderer: renderer}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/frontend/head", h.head)
	rg.GET("/frontend/stylesheets", h.stylesheets)
}

func (h *Handler) head(c *gin.Context) {
	customizer := c.Query("customizer") == "1"
	out, err := h.Renderer.HeadHTML(c.Request.Context(), customizer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

func (h *Handler) stylesheets(c *gin.Context) {
	customizer := c.Query("customizer") == "1"
	sheets, err := h.Renderer.Stylesheets(c.Request.Context(), customizer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stylesheets": sheets})
}
