package controls

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches reads to public and mutations to protected
// (auth + nonce middleware applied by the caller).
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/controls", h.list)
	public.GET("/controls/:id", h.get)
	protected.POST("/controls", h.create)
	protected.PUT("/controls/:id", h.update)
	protected.DELETE("/controls/:id", h.remove)
	protected.DELETE("/controls", h.removeAll)
}

type controlReq struct {
	Name        string   `json:"name"`
	Selectors   []string `json:"selectors"`
	Description string   `json:"description"`
	ForceStyles bool     `json:"force_styles"`
}

func (h *Handler) list(c *gin.Context) {
	orderBy := c.DefaultQuery("order_by", "name")
	order := c.DefaultQuery("order", "asc")

	items, err := h.Repo.List(c.Request.Context(), orderBy, order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"controls": items})
}

func (h *Handler) get(c *gin.Context) {
	ctrl, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if ctrl == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, ctrl)
}

func (h *Handler) create(c *gin.Context) {
	var req controlReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctrl, err := h.Repo.Create(c.Request.Context(), req.Name, req.Selectors, req.Description, req.ForceStyles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusCreated, ctrl)
}

func (h *Handler) update(c *gin.Context) {
	var req controlReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctrl, err := h.Repo.Update(c.Request.Context(), c.Param("id"), req.Name, req.Selectors, req.Description, req.ForceStyles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, ctrl)
}

func (h *Handler) remove(c *gin.Context) {
	ok, err := h.Repo.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": ok})
}

func (h *Handler) removeAll(c *gin.Context) {
	if err := h.Repo.DeleteAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
