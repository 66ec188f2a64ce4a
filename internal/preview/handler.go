package preview

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fonthub/pkg/models"
)

type Handler struct {
	Hub    *Hub
	Bridge *Bridge
}

func NewHandler(hub *Hub, bridge *Bridge) *Handler {
	return &Handler{Hub: hub, Bridge: bridge}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/preview/ws", WSHandler(h.Hub))
	public.GET("/preview/controls", h.controls)
	public.GET("/preview/l10n", h.l10n)
	protected.POST("/preview/change", h.change)
	protected.POST("/preview/reset", h.reset)
}

// liveControl is one entry of the "live preview controls" payload: the
// sole channel feeding the in-browser previewer.
type liveControl struct {
	Kind        models.SlotKind  `json:"type"`
	Transport   models.Transport `json:"transport"`
	Selector    string           `json:"selector"`
	ForceStyles bool             `json:"force_styles"`
	Value       models.FontValue `json:"value"`
}

func (h *Handler) controls(c *gin.Context) {
	ctx := c.Request.Context()

	slots, err := h.Bridge.Registry.AllSlots(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list slots failed"})
		return
	}
	// Session start: always fresh, never the cached snapshot.
	effective, err := h.Bridge.Resolver.Effective(ctx, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		return
	}

	out := make(map[string]liveControl, len(slots))
	for _, s := range slots {
		out[s.Name] = liveControl{
			Kind:        s.Kind,
			Transport:   s.Transport,
			Selector:    s.Selector,
			ForceStyles: s.ForceStyles,
			Value:       effective[s.Name],
		}
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) l10n(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"reset":          "Reset",
		"save":           "Save Font",
		"delete":         "Delete",
		"confirm_delete": "Are you sure you want to delete this font control? This action cannot be undone.",
		"theme_default":  "Theme Default",
	})
}

type changeReq struct {
	Slot  string `json:"slot"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (h *Handler) change(c *gin.Context) {
	var req changeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Slot == "" || req.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot and field required"})
		return
	}

	if err := h.Bridge.Change(c.Request.Context(), req.Slot, req.Field, req.Value); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) reset(c *gin.Context) {
	h.Bridge.Reset()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
