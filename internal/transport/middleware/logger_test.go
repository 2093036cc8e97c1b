package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Success(t *testing.T) {
	t.Parallel()

	log, buf := bufferLogger()
	h := Chain(RequestID, Logger(log))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"msg":"http.request"`)
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/api/notes"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"bytes":2`)
	assert.Contains(t, out, `"request_id":"req-42"`)
	assert.Contains(t, out, `"level":"INFO"`)
	assert.NotContains(t, out, "subject")
}

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
	}{
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		log, buf := bufferLogger()
		Logger(log)(statusHandler(tt.status)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Contains(t, buf.String(), `"level":"`+tt.level+`"`)
	}
}

type staticValidator struct{ subject string }

func (v staticValidator) ValidateToken(context.Context, string) (string, error) {
	return v.subject, nil
}

func TestLogger_IncludesSubject(t *testing.T) {
	t.Parallel()

	log, buf := bufferLogger()
	h := Chain(Logger(log), Auth(staticValidator{"owner"}, true))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"subject":"owner"`)
}
