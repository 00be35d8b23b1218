package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/peppidesu/landmower/internal/config"
	"github.com/peppidesu/landmower/internal/core"
	"github.com/peppidesu/landmower/internal/links"
	"github.com/peppidesu/landmower/internal/metrics"
)

type Router struct {
	cfg config.Config
	svc *core.Service
}

func NewRouter(cfg config.Config, svc *core.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", dur).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	api := &Router{cfg: cfg, svc: svc}

	r.MethodFunc(http.MethodGet, "/healthz", api.handleHealth)
	r.MethodFunc(http.MethodGet, "/metrics", metrics.Handler)

	r.MethodFunc(http.MethodGet, "/s/{key}", api.handleRedirect)

	r.Route("/api/links", func(r chi.Router) {
		r.MethodFunc(http.MethodGet, "/", api.handleList)
		r.MethodFunc(http.MethodPost, "/", api.handleAdd)
		r.MethodFunc(http.MethodGet, "/{key}", api.handleGet)
		r.MethodFunc(http.MethodDelete, "/{key}", api.handleDelete)
	})

	return r
}

type addLinkReq struct {
	Key  string `json:"key,omitempty"`
	Link string `json:"link"`
}

type linkResp struct {
	Key      string         `json:"key"`
	Link     string         `json:"link"`
	Metadata links.Metadata `json:"metadata"`
	ShortURL string         `json:"short_url,omitempty"`
}

func (rt *Router) linkResp(key string, e links.Entry) linkResp {
	resp := linkResp{Key: key, Link: e.Link, Metadata: e.Metadata}
	if rt.cfg.BaseURL != "" {
		resp.ShortURL = strings.TrimRight(rt.cfg.BaseURL, "/") + "/s/" + key
	}
	return resp
}

func (rt *Router) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addLinkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	req.Link = strings.TrimSpace(req.Link)

	if fail := rt.validateAdd(req); fail != nil {
		writeJSON(w, map[string]any{"errors": fail}, http.StatusBadRequest)
		return
	}

	var (
		key string
		e   links.Entry
		err error
	)
	if req.Key != "" {
		key = req.Key
		e, err = rt.svc.AddNamed(req.Key, req.Link)
	} else {
		key, e, err = rt.svc.Add(req.Link)
	}
	switch {
	case errors.Is(err, links.ErrAliasInUse):
		http.Error(w, "key already in use", http.StatusConflict)
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("add link")
		http.Error(w, "could not create link", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rt.linkResp(key, e), http.StatusCreated)
}

func (rt *Router) handleRedirect(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	target, ok := rt.svc.Resolve(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	metrics.Redirects.Inc()
	rt.svc.RecordAccess(key)
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func (rt *Router) handleList(w http.ResponseWriter, r *http.Request) {
	snapshot := rt.svc.List()
	out := make([]linkResp, 0, len(snapshot))
	for key, e := range snapshot {
		out = append(out, rt.linkResp(key, e))
	}
	writeJSON(w, out, http.StatusOK)
}

func (rt *Router) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	e, ok := rt.svc.Get(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, rt.linkResp(key, e), http.StatusOK)
}

func (rt *Router) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	_, err := rt.svc.Remove(key)
	switch {
	case errors.Is(err, links.ErrNotFound):
		http.NotFound(w, r)
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("delete link")
		http.Error(w, "could not delete link", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
