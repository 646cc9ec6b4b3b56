package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/and161185/streamish/internal/convert"
	"github.com/and161185/streamish/internal/errs"
	"github.com/and161185/streamish/internal/model"
)

// DateLayout is the format of the hottest?since= parameter.
const DateLayout = "2006-01-02"

func (h *Handler) listVideos(withComments bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vs, err := h.videos.List(r.Context(), withComments)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, convert.ToVideos(vs))
	}
}

func (h *Handler) getVideo(withComments bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		v, err := h.videos.Get(r.Context(), id, withComments)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.writeJSON(w, http.StatusOK, convert.ToVideo(v))
	}
}

func (h *Handler) createVideo(w http.ResponseWriter, r *http.Request) {
	var in convert.Video
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	v := convert.FromVideo(in)
	if err := h.videos.Create(r.Context(), &v); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/video/%d", v.ID))
	h.writeJSON(w, http.StatusCreated, convert.ToVideo(v))
}

func (h *Handler) updateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in convert.Video
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.videos.Update(r.Context(), id, convert.FromVideo(in)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.videos.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// searchQuery reads q and sortDesc; a missing sortDesc means ascending.
func searchQuery(r *http.Request) (model.SearchQuery, error) {
	q := model.SearchQuery{Term: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("sortDesc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			return model.SearchQuery{}, fmt.Errorf("sortDesc %q: %w", raw, errs.ErrInvalidArgument)
		}
		q.SortDescending = desc
	}
	return q, nil
}

func (h *Handler) searchVideos(w http.ResponseWriter, r *http.Request) {
	q, err := searchQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	vs, err := h.videos.Search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, convert.ToVideos(vs))
}

func (h *Handler) hottestVideos(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("since")
	since, err := time.Parse(DateLayout, raw)
	if err != nil {
		h.fail(w, r, fmt.Errorf("since %q must be YYYY-MM-DD: %w", raw, errs.ErrInvalidArgument))
		return
	}
	vs, err := h.videos.Hottest(r.Context(), since)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, convert.ToVideos(vs))
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in convert.Comment
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	c := convert.FromComment(in)
	if err := h.videos.AddComment(r.Context(), id, &c); err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, convert.ToComment(c))
}
