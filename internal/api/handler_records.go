package api

import (
	"errors"
	"net/http"

	"github.com/syntrixbase/salesgrid/internal/server"
	"github.com/syntrixbase/salesgrid/pkg/model"
)

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	params, err := decodeRecordsParams(r.URL.Query())
	if err != nil {
		server.WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	if err := r.Context().Err(); err != nil {
		server.WriteError(w, 499, "CANCELED", "Request canceled")
		return
	}

	sel, err := s.executor.Execute(params.Query(), s.sellers, s.customers)
	if err != nil {
		if errors.Is(err, model.ErrInvalidQuery) {
			server.WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
			return
		}
		s.logger.Error("Failed to execute records query", "error", err, "request_id", server.GetRequestID(r.Context()))
		server.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load records")
		return
	}

	server.WriteJSON(w, http.StatusOK, RecordsResponse{
		Items: sel.Items,
		Total: sel.Total,
		Page:  sel.Page,
		Limit: sel.Limit,
	})
}

func (s *Server) reference(collection string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := s.dataset.Reference(collection)
		if err != nil {
			server.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	})
}
