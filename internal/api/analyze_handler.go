package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/scriptlens/scriptlens/internal/apperr"
)

func analyzeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteError(w, http.StatusRequestEntityTooLarge, "request body too large", apperr.KindMalformedRequest.Code())
				return
			}
			WriteError(w, http.StatusBadRequest, "invalid request body", apperr.KindMalformedRequest.Code())
			return
		}

		if missing := req.missingFields(); len(missing) > 0 {
			WriteError(w, http.StatusBadRequest,
				"missing required fields: "+strings.Join(missing, ", "),
				apperr.KindMalformedRequest.Code())
			return
		}

		res, err := cfg.Pipeline.Process(r.Context(), req.toPipeline())
		if err != nil {
			kind := apperr.KindOf(err)
			WriteError(w, kind.HTTPStatus(), err.Error(), kind.Code())
			return
		}

		WriteJSON(w, http.StatusOK, ResultToResponse(res))
	}
}
