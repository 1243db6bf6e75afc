package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"leadtracker/internal/model"
	"leadtracker/internal/service"
)

type envelope struct {
	Status     string                `json:"status"`
	StatusCode int                   `json:"status_code"`
	Message    string                `json:"message"`
	Error      string                `json:"error"`
	Data       model.DetectionResult `json:"data"`
}

func newTestHandler() *FormHandler {
	return NewFormHandler(service.NewDetector(service.NewHTTPFetcher(time.Second, 0)), 1<<20)
}

func post(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/forms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestDetectForms(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/contact":
			fmt.Fprint(w, `<form action="/lead" method="POST"><input name="email" type="email" required><input type="submit"></form>`)
		case "/empty":
			fmt.Fprint(w, `<p>nothing</p>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer target.Close()

	h := newTestHandler()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCount  int
		expectedError  string
	}{
		{
			name:           "forms found",
			body:           fmt.Sprintf(`{"websiteId":"w1","url":%q}`, target.URL+"/contact"),
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "no forms",
			body:           fmt.Sprintf(`{"url":%q}`, target.URL+"/empty"),
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "upstream 404",
			body:           fmt.Sprintf(`{"url":%q}`, target.URL+"/gone"),
			expectedStatus: http.StatusBadGateway,
			expectedError:  "unexpected status code: 404",
		},
		{
			name:           "missing url",
			body:           `{"websiteId":"w1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing 'url' field",
		},
		{
			name:           "invalid url",
			body:           `{"url":"example.com/contact"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid 'url' format",
		},
		{
			name:           "malformed json",
			body:           `{"url":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := post(t, h.DetectForms, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedStatus, env.StatusCode)
			if tt.expectedError != "" {
				assert.Contains(t, env.Error, tt.expectedError)
				return
			}
			assert.Equal(t, "Forms detected successfully", env.Message)
			assert.Equal(t, tt.expectedCount, env.Data.Count)
			assert.Len(t, env.Data.Forms, tt.expectedCount)
		})
	}
}

func TestDetectFormsResponseShape(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<form action="/lead" method="POST"><label for="e">Email</label><input id="e" name="email" type="email" required></form>`)
	}))
	defer target.Close()

	_, env := post(t, newTestHandler().DetectForms, fmt.Sprintf(`{"websiteId":"w1","url":%q}`, target.URL))

	assert.Equal(t, "w1", env.Data.WebsiteID)
	require.Len(t, env.Data.Forms, 1)
	assert.Equal(t, model.DetectedForm{
		URL:    target.URL + "/lead",
		Action: "/lead",
		Method: "post",
		Fields: []model.FormField{{Name: "email", Type: "email", Label: "Email", Required: true}},
	}, env.Data.Forms[0])
}

func TestDetectFormsMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler().DetectForms(rec, httptest.NewRequest(http.MethodGet, "/forms/detect", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestExtractForms(t *testing.T) {
	h := newTestHandler()

	rec, env := post(t, h.ExtractForms, `{"html":"<form action='/s'><input name='a'></form>","baseUrl":"https://example.com/p"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data.Forms, 1)
	assert.Equal(t, "https://example.com/s", env.Data.Forms[0].URL)

	rec, env = post(t, h.ExtractForms, `{"html":"","baseUrl":"https://example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing 'html' field", env.Error)

	rec, env = post(t, h.ExtractForms, `{"html":"<form></form>","baseUrl":"/relative"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid 'baseUrl' format", env.Error)
}

func TestExtractFormsBodyTooLarge(t *testing.T) {
	h := NewFormHandler(service.NewDetector(nil), 64)
	body := fmt.Sprintf(`{"html":%q,"baseUrl":"https://example.com"}`, strings.Repeat("x", 200))

	rec, env := post(t, h.ExtractForms, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, env.Error, "64 bytes")
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "timeout",
			err:      &service.DetectionError{Op: service.OpFetch, Err: context.DeadlineExceeded},
			expected: http.StatusGatewayTimeout,
		},
		{
			name:     "bad status",
			err:      &service.DetectionError{Op: service.OpFetch, StatusCode: 403, Err: errors.New("unexpected status code: 403")},
			expected: http.StatusBadGateway,
		},
		{
			name:     "parse",
			err:      &service.DetectionError{Op: service.OpParse, Err: errors.New("bad")},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "wrapped detection error",
			err:      fmt.Errorf("outer: %w", &service.DetectionError{Op: service.OpFetch, Err: errors.New("refused")}),
			expected: http.StatusBadGateway,
		},
		{
			name:     "unknown",
			err:      errors.New("other"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusForError(tt.err))
		})
	}
}

func TestHealthCheckHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Data["status"])
	_, err := time.Parse(time.RFC3339, body.Data["timestamp"])
	assert.NoError(t, err)
}
