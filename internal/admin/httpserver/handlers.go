package httpserver

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"elamli.org/elamli-admin/internal/admin/httpserver/middleware"
	"elamli.org/elamli-admin/internal/admin/orders"
	"elamli.org/elamli-admin/internal/admin/session"
	"elamli.org/elamli-admin/internal/admin/settings"
	"elamli.org/elamli-admin/internal/admin/stats"
	"elamli.org/elamli-admin/internal/admin/templates"
)

type handlers struct {
	renderer *templates.Renderer
	orders   orders.Service
	settings settings.Service
	basePath string
	logger   *zap.Logger
	now      func() time.Time
}

// baseData carries the fields every page template expects.
type baseData struct {
	Title     string
	BasePath  string
	Active    string
	UserEmail string
	CSRFToken string
}

func (h *handlers) base(r *http.Request, title, active string) baseData {
	data := baseData{
		Title:    title,
		BasePath: h.basePath,
		Active:   active,
	}
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		if token, err := sess.EnsureCSRFToken(); err == nil {
			data.CSRFToken = token
		}
		if user := sess.User(); user != nil {
			data.UserEmail = user.Email
		}
	}
	return data
}

func (h *handlers) session(r *http.Request) *session.Session {
	return middleware.MustSession(r.Context())
}

func (h *handlers) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderPage(w, name, data); err != nil {
		h.logger.Error("render page failed", zap.String("page", name), zap.Error(err))
	}
}

func (h *handlers) renderFragment(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderFragment(w, name, data); err != nil {
		h.logger.Error("render fragment failed", zap.String("fragment", name), zap.Error(err))
	}
}

type dashboardData struct {
	baseData
	Overview stats.Overview
	Error    string
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	var errMsg string
	if err := h.orders.Refresh(r.Context()); err != nil {
		h.logger.Warn("order refresh failed, serving cached orders", zap.Error(err))
		errMsg = "Could not refresh orders from the store; showing the last known data."
	}

	list := h.orders.Snapshot()
	h.renderPage(w, "dashboard", dashboardData{
		baseData: h.base(r, "Dashboard", "dashboard"),
		Overview: stats.BuildOverview(list, 5),
		Error:    errMsg,
	})
}
