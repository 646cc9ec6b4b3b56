package httpserver

import (
	"fmt"
	"net/http"

	"github.com/and161185/streamish/internal/convert"
)

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	ps, err := h.profiles.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, convert.ToUserProfiles(ps))
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, convert.ToUserProfile(p))
}

func (h *Handler) profileVideos(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	vs, err := h.profiles.Videos(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, convert.ToVideos(vs))
}

func (h *Handler) createProfile(w http.ResponseWriter, r *http.Request) {
	var in convert.UserProfile
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	p := convert.FromUserProfile(in)
	if err := h.profiles.Create(r.Context(), &p); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/profiles/%d", p.ID))
	h.writeJSON(w, http.StatusCreated, convert.ToUserProfile(p))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in convert.UserProfile
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.profiles.Update(r.Context(), id, convert.FromUserProfile(in)); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.profiles.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
