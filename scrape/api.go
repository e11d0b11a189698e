package scrape

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/glane/transform"
)

// ScrapeRequest is the HTTP body for POST /scrape.
type ScrapeRequest struct {
	URL     string   `json:"url"`
	Options *Options `json:"options,omitempty"`
}

// MapRequest is the HTTP body for POST /map.
type MapRequest struct {
	URL     string      `json:"url"`
	Options *MapOptions `json:"options,omitempty"`
}

// RegisterHTTP registers the scrape endpoints on a chi router.
func (c *Client) RegisterHTTP(r chi.Router) {
	r.Post("/scrape", c.handleScrape)
	r.Post("/map", c.handleMap)
	r.Get("/healthz", c.handleHealthz)
}

func (c *Client) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := c.Scrape(r.Context(), req.URL, req.Options)
	if err != nil {
		c.logger.Error("api: scrape failed", "url", req.URL, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, Response[*Result]{Success: true, Data: result})
}

func (c *Client) handleMap(w http.ResponseWriter, r *http.Request) {
	var req MapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	data, err := c.Map(r.Context(), req.URL, req.Options)
	if err != nil {
		c.logger.Error("api: map failed", "url", req.URL, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, Response[*MapData]{Success: true, Data: data})
}

func (c *Client) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps pipeline errors to HTTP status codes. Option and
// transform failures are caller mistakes; everything else is an
// upstream fetch problem.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotImplemented), errors.Is(err, transform.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, ErrInvalidTimeout),
		errors.Is(err, ErrInvalidWaitTime),
		errors.Is(err, transform.ErrParse),
		errors.Is(err, transform.ErrSelect),
		errors.Is(err, transform.ErrURLParse):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response[struct{}]{Success: false, Error: msg})
}
