package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "medistore/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware_Process(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string // empty means a generated UUID
	}{
		{name: "reuses client id", header: "req-123", expected: "req-123"},
		{name: "reuses uuid", header: "6fa459ea-ee8a-3ca4-894e-db77e160355e", expected: "6fa459ea-ee8a-3ca4-894e-db77e160355e"},
		{name: "generates when missing", header: ""},
		{name: "replaces line breaks", header: "abc\nlevel=ERROR msg=forged"},
		{name: "replaces spaces", header: "two words"},
		{name: "replaces oversized id", header: strings.Repeat("a", maxRequestIDLength+1)},
	}

	mw := NewRequestIDMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header[deliverycontext.HeaderXRequestID] = []string{tt.header}
			}
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			var fromContext string
			err := mw.Process(func(c echo.Context) error {
				fromContext = deliverycontext.GetRequestIDFromContext(c.Request().Context())

				return nil
			})(c)
			assert.NoError(t, err)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			if tt.expected != "" {
				assert.Equal(t, tt.expected, got)
			} else {
				_, parseErr := uuid.Parse(got)
				assert.NoError(t, parseErr, "expected a generated uuid, got %q", got)
			}
			assert.Equal(t, got, fromContext)
			assert.Equal(t, got, deliverycontext.GetRequestID(c))
		})
	}
}
