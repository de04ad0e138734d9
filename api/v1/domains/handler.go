package domains

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"guestwall/api/v1/middleware"
	"guestwall/internal/domainutil"
	"guestwall/internal/httpx"
	"guestwall/internal/lifecycle"
	"guestwall/internal/metrics"
)

// Handler exposes the four domain lifecycle operations to the dashboard.
type Handler struct {
	svc     *lifecycle.Service
	metrics *metrics.LifecycleMetrics
}

// NewHandler creates a domains Handler. m may be nil.
func NewHandler(svc *lifecycle.Service, m *metrics.LifecycleMetrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// Register mounts the routes on an authenticated router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/guestbooks/:id/domain", h.AddDomain)
	rg.POST("/guestbooks/:id/domain/verify", h.VerifyDomain)
	rg.DELETE("/guestbooks/:id/domain", h.RemoveDomain)
	rg.GET("/guestbooks/:id/domain", h.GetDomainStatus)
}

// AddDomain handles POST /api/v1/guestbooks/:id/domain
func (h *Handler) AddDomain(c *gin.Context) {
	uid, gid, ok := h.params(c)
	if !ok {
		return
	}

	var req AddDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}

	res, err := h.svc.Add(c.Request.Context(), uid, gid, req.Domain)
	if err != nil {
		h.count("add", "error")
		httpx.FailErr(c, translate(err))
		return
	}

	h.count("add", "ok")
	httpx.OK(c, gin.H{"dnsRecords": res.DNSRecords})
}

// VerifyDomain handles POST /api/v1/guestbooks/:id/domain/verify
func (h *Handler) VerifyDomain(c *gin.Context) {
	uid, gid, ok := h.params(c)
	if !ok {
		return
	}

	res, err := h.svc.Verify(c.Request.Context(), uid, gid)
	if err != nil {
		h.count("verify", "error")
		httpx.FailErr(c, translate(err))
		return
	}

	h.count("verify", "ok")
	httpx.OK(c, gin.H{"verified": res.Verified, "errors": res.Errors})
}

// RemoveDomain handles DELETE /api/v1/guestbooks/:id/domain
func (h *Handler) RemoveDomain(c *gin.Context) {
	uid, gid, ok := h.params(c)
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), uid, gid); err != nil {
		h.count("remove", "error")
		httpx.FailErr(c, translate(err))
		return
	}

	h.count("remove", "ok")
	httpx.OK(c, nil)
}

// GetDomainStatus handles GET /api/v1/guestbooks/:id/domain
func (h *Handler) GetDomainStatus(c *gin.Context) {
	uid, gid, ok := h.params(c)
	if !ok {
		return
	}

	res, err := h.svc.Status(c.Request.Context(), uid, gid)
	if err != nil {
		h.count("status", "error")
		httpx.FailErr(c, translate(err))
		return
	}

	h.count("status", "ok")
	httpx.OK(c, gin.H{
		"domain":       res.Domain,
		"verified":     res.Verified,
		"vercelStatus": res.VercelStatus,
		"dnsRecords":   res.DNSRecords,
	})
}

func (h *Handler) params(c *gin.Context) (uid, gid int, ok bool) {
	uid, ok = middleware.UserID(c)
	if !ok {
		httpx.FailErr(c, httpx.ErrUnauthorized("missing user identity"))
		return 0, 0, false
	}
	gid, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid guestbook id"))
		return 0, 0, false
	}
	return uid, gid, true
}

func (h *Handler) count(op, outcome string) {
	if h.metrics != nil {
		h.metrics.OpsTotal.WithLabelValues(op, outcome).Inc()
	}
}

// translate maps lifecycle errors onto the API error taxonomy. Validation
// messages are shown to the user verbatim; everything unexpected collapses
// into an opaque 500.
func translate(err error) *httpx.AppError {
	var verr *domainutil.ValidationError
	switch {
	case errors.As(err, &verr):
		return httpx.ErrDomainInvalid(verr.Reason)
	case errors.Is(err, lifecycle.ErrRateLimited):
		return httpx.ErrRateLimited(err.Error())
	case errors.Is(err, lifecycle.ErrDomainTaken):
		return httpx.ErrDomainConflict(err.Error())
	case errors.Is(err, lifecycle.ErrNoDomain):
		return httpx.ErrNoDomain(err.Error())
	case errors.Is(err, lifecycle.ErrNotFound):
		return httpx.ErrNotFound(err.Error())
	case errors.Is(err, lifecycle.ErrRegistrar):
		return httpx.ErrRegistrar("the domain provider rejected the request; try again later", err)
	default:
		return httpx.ErrInternal(err)
	}
}
