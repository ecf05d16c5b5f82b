package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/notepen/internal/convert"
)

type convertRequest struct {
	Format string `json:"format"`
	Header string `json:"header"`
	Body   string `json:"body"`
}

// handleConvert runs the export pipelines on markup supplied by the caller,
// without a session.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	f, err := convert.ParseFormat(req.Format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	text, err := convert.Convert(f, req.Header, req.Body)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"format": f,
		"text":   text,
	})
}
