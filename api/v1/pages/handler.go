package pages

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"guestwall/internal/httpx"
	"guestwall/internal/model"
	"guestwall/internal/store"
)

// Store is the lookup the page handlers need.
type Store interface {
	GetBySlug(ctx context.Context, slug string) (*model.Guestbook, error)
}

// Handler serves the public wall and collect pages. Rendering lives in the
// web frontend; these endpoints return the page payload for a slug, which
// is where the resolver's rewrite lands.
type Handler struct {
	store Store
}

// NewHandler creates a pages Handler.
func NewHandler(st Store) *Handler {
	return &Handler{store: st}
}

// Register mounts the public page routes.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/wall/:slug", h.Wall)
	r.GET("/collect/:slug", h.Collect)
}

// Wall handles GET /wall/:slug
func (h *Handler) Wall(c *gin.Context) {
	h.page(c, "wall")
}

// Collect handles GET /collect/:slug
func (h *Handler) Collect(c *gin.Context) {
	h.page(c, "collect")
}

func (h *Handler) page(c *gin.Context, page string) {
	gb, err := h.store.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Fail(c, http.StatusNotFound, "Not found")
			return
		}
		httpx.FailErr(c, httpx.ErrInternal(err))
		return
	}

	httpx.OK(c, gin.H{
		"page":  page,
		"slug":  gb.Slug,
		"title": gb.Title,
	})
}
