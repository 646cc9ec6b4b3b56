package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/metrics"
	"github.com/and161185/streamish/internal/model"
	"github.com/and161185/streamish/internal/view"
)

const readyTimeout = 2 * time.Second

func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		metrics.SetStoreUp(false)
		h.log.Warn("store ping failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	metrics.SetStoreUp(true)
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// home lists every video with comments, or search results when q is present.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	page := view.Page{Title: "Streamish", Search: true}

	var err error
	if r.URL.Query().Has("q") {
		page.Query, err = searchQuery(r)
		if err == nil {
			page.Videos, err = h.videos.Search(r.Context(), page.Query)
		}
	} else {
		page.Videos, err = h.videos.List(r.Context(), true)
	}
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	h.renderPage(w, page)
}

func (h *Handler) videoPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	v, err := h.videos.Get(r.Context(), id, true)
	if err != nil {
		h.failPage(w, r, err)
		return
	}
	h.renderPage(w, view.Page{Title: v.Title, Videos: []model.Video{v}})
}

func (h *Handler) renderPage(w http.ResponseWriter, p view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.RenderPage(w, p); err != nil {
		h.log.Warn("render page", zap.Error(err))
	}
}

func (h *Handler) failPage(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		http.Error(w, "video not found", http.StatusNotFound)
	case errors.Is(err, errs.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		metrics.ServerErrors.WithLabelValues(routePattern(r)).Inc()
		h.log.Error("page failed", zap.Error(err), zap.String("request_id", RequestIDFromContext(r.Context())))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
