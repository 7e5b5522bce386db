package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	htmlxml "github.com/porticus-lab/go-html-xml"
)

// Response headers describing the extraction.
const (
	HeaderTruncated = "X-Html2xml-Truncated"
	HeaderChunks    = "X-Html2xml-Chunks"
)

// handleExtract converts the page named by the url query parameter, or
// the HTML document in the request body when no url is given.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var (
		res *htmlxml.Result
		err error
	)
	if rawURL := r.URL.Query().Get("url"); rawURL != "" {
		u, perr := url.ParseRequestURI(rawURL)
		if perr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			jsonError(w, "url must be an absolute http or https URL", http.StatusBadRequest)
			return
		}
		res, err = s.extractor.ConvertURL(r.Context(), rawURL)
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		body, rerr := io.ReadAll(r.Body)
		if rerr != nil {
			var mbe *http.MaxBytesError
			if errors.As(rerr, &mbe) {
				jsonError(w, "document exceeds max size ("+strconv.FormatInt(s.maxBodyBytes, 10)+" bytes)", http.StatusRequestEntityTooLarge)
				return
			}
			jsonError(w, "failed to read body", http.StatusBadRequest)
			return
		}
		res, err = s.extractor.ConvertHTML(r.Context(), string(body))
	}

	switch {
	case errors.Is(err, htmlxml.ErrNoInput):
		jsonError(w, "request needs a url parameter or an HTML body", http.StatusBadRequest)
		return
	case errors.Is(err, htmlxml.ErrClosed):
		jsonError(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	case err != nil:
		s.log.Error().Err(err).Msg("extraction failed")
		jsonError(w, "extraction failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=ISO-8859-1")
	w.Header().Set(HeaderTruncated, strconv.FormatBool(res.Truncated()))
	if p := res.Page(); p != nil {
		w.Header().Set(HeaderChunks, strconv.Itoa(len(p.Chunks)))
	}
	w.Header().Set("Content-Length", strconv.Itoa(res.Len()))
	if _, err := res.WriteTo(w); err != nil {
		s.log.Warn().Err(err).Msg("writing response")
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
