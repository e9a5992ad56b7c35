package api

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/apptype"
	"github.com/ZanzyTHEbar/textsim-go/internal/buildinfo"
	"github.com/ZanzyTHEbar/textsim-go/internal/database"
	"github.com/ZanzyTHEbar/textsim-go/internal/embeddings"
	"github.com/ZanzyTHEbar/textsim-go/internal/httputils"
	"github.com/ZanzyTHEbar/textsim-go/internal/layout"
	"github.com/ZanzyTHEbar/textsim-go/internal/similarity"
	"github.com/ZanzyTHEbar/textsim-go/pkg/textsim"
)

type Handler struct {
	logger *zap.Logger
	svc    *textsim.Service
}

func NewHandler(logger *zap.Logger, svc *textsim.Service) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger, svc: svc}
}

func (h *Handler) HandleEmbeddings(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())

	var req EmbeddingsRequest
	if err := httputils.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debug("JSON decode error", zap.String("request_id", reqID), zap.Error(err))
		httputils.HandleError(w, err)
		return
	}

	c, err := h.svc.Compare(r.Context(), req.Texts, req.TaskType)
	if err != nil {
		h.fail(w, reqID, "compare failed", err)
		return
	}

	values := make([]apptype.EmbeddingValues, len(c.Embeddings))
	for i, e := range c.Embeddings {
		values[i] = apptype.EmbeddingValues{Values: e}
	}
	h.respond(w, reqID, http.StatusOK, EmbeddingsResponse{
		Success:      true,
		ID:           c.ID,
		Provider:     c.Provider,
		Model:        c.Model,
		Dimensions:   c.Dimensions,
		Embeddings:   values,
		Similarities: c.Similarities,
		Layout:       c.Layout,
	})
}

func (h *Handler) HandleLayout(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())

	var req LayoutRequest
	if err := httputils.DecodeJSON(w, r, &req); err != nil {
		httputils.HandleError(w, err)
		return
	}
	var canvas apptype.Canvas
	if req.Canvas != nil {
		canvas = *req.Canvas
	}
	l, err := h.svc.Layout(req.Similarities, canvas)
	if err != nil {
		h.fail(w, reqID, "layout failed", err)
		return
	}
	h.respond(w, reqID, http.StatusOK, LayoutResponse{Layout: l})
}

func (h *Handler) HandleListComparisons(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())

	limit, err := queryInt(r, "limit")
	if err != nil {
		httputils.HandleError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		httputils.HandleError(w, err)
		return
	}
	list, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, reqID, "list comparisons failed", err)
		return
	}
	h.respond(w, reqID, http.StatusOK, ListResponse{Comparisons: list})
}

func (h *Handler) HandleGetComparison(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())

	c, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, reqID, "get comparison failed", err)
		return
	}
	h.respond(w, reqID, http.StatusOK, c)
}

func (h *Handler) HandleDeleteComparison(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())

	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, reqID, "delete comparison failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	info := h.svc.Info()
	h.respond(w, RequestIDFrom(r.Context()), http.StatusOK, HealthResponse{
		Status:     "ok",
		Name:       buildinfo.Name,
		Version:    buildinfo.Version,
		Provider:   info.Provider,
		Model:      info.Model,
		Dimensions: info.Dimensions,
		History:    info.History,
	})
}

func (h *Handler) respond(w http.ResponseWriter, reqID string, status int, body any) {
	if err := httputils.JSONResponse(w, status, body); err != nil {
		h.logger.Error("Error sending response", zap.String("request_id", reqID), zap.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, reqID, msg string, err error) {
	httpErr := toHTTPError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.String("request_id", reqID), zap.Int("status", httpErr.Code), zap.Error(err))
	} else {
		h.logger.Debug(msg, zap.String("request_id", reqID), zap.Int("status", httpErr.Code), zap.Error(err))
	}
	httputils.HandleError(w, httpErr)
}

// toHTTPError maps domain errors onto status codes.
func toHTTPError(err error) *httputils.HTTPError {
	var httpErr *httputils.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, similarity.ErrInvalidInputCount),
		errors.Is(err, similarity.ErrEmptyText),
		errors.Is(err, layout.ErrInvalidCanvas):
		code = http.StatusBadRequest
	case errors.Is(err, similarity.ErrDegenerateVector):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, embeddings.ErrNotConfigured):
		code = http.StatusServiceUnavailable
	case errors.Is(err, similarity.ErrProvider):
		code = http.StatusBadGateway
	case errors.Is(err, textsim.ErrHistoryDisabled), errors.Is(err, database.ErrNotFound):
		code = http.StatusNotFound
	}
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	return &httputils.HTTPError{Code: code, Message: msg}
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &httputils.HTTPError{Code: http.StatusBadRequest, Message: "invalid " + key + " parameter"}
	}
	return n, nil
}
