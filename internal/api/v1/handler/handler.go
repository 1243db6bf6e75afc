package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"leadtracker/internal/api/v1/middleware"
	"leadtracker/internal/log"
	"leadtracker/internal/model"
	"leadtracker/internal/service"
	"leadtracker/internal/util"
	"leadtracker/pkg/response"
)

func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	response.Success(w, resp, "")
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// FormHandler serves the detection endpoints.
type FormHandler struct {
	detector        *service.Detector
	maxRequestBytes int64
}

func NewFormHandler(detector *service.Detector, maxRequestBytes int64) *FormHandler {
	return &FormHandler{detector: detector, maxRequestBytes: maxRequestBytes}
}

// DetectForms fetches the submitted URL and reports the forms found there.
func (h *FormHandler) DetectForms(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	var req model.DetectFormsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.URL == "" {
		response.Error(w, http.StatusBadRequest, "missing 'url' field")
		return
	}
	if !util.IsValidURL(req.URL) {
		response.Error(w, http.StatusBadRequest, "invalid 'url' format")
		return
	}

	forms, err := h.detector.DetectFromURL(r.Context(), req.URL)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	userID, _ := middleware.UserIDFromContext(r.Context())
	log.Logger.Info("forms detected",
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		zap.String("user_id", userID),
		zap.String("website_id", req.WebsiteID),
		zap.String("url", req.URL),
		zap.Int("forms", len(forms)),
	)

	response.Success(w, model.DetectionResult{
		WebsiteID: req.WebsiteID,
		URL:       req.URL,
		Count:     len(forms),
		Forms:     forms,
	}, "Forms detected successfully")
}

// ExtractForms reports the forms in markup supplied by the caller.
func (h *FormHandler) ExtractForms(w http.ResponseWriter, r *http.Request) {
	if !allowPost(w, r) {
		return
	}

	var req model.ExtractFormsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.HTML == "" {
		response.Error(w, http.StatusBadRequest, "missing 'html' field")
		return
	}
	if !util.IsValidURL(req.BaseURL) {
		response.Error(w, http.StatusBadRequest, "invalid 'baseUrl' format")
		return
	}

	forms, err := h.detector.DetectFromMarkup(req.HTML, req.BaseURL)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.Success(w, model.DetectionResult{
		URL:   req.BaseURL,
		Count: len(forms),
		Forms: forms,
	}, "Forms extracted successfully")
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decode reads a JSON body no larger than maxRequestBytes into dst and
// writes the error response itself when that fails.
func (h *FormHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxRequestBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *FormHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	log.Logger.Warn("form detection failed",
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	)
	response.Error(w, status, err.Error())
}

// StatusForError maps a detection failure to the HTTP status returned to
// the caller.
func StatusForError(err error) int {
	var de *service.DetectionError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}

	switch {
	case de.Timeout():
		return http.StatusGatewayTimeout
	case de.Op == service.OpParse:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
