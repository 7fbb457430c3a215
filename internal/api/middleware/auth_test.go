package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		token      string
		authHeader string
		wantStatus int
	}{
		{"disabled passes everything", "", "", http.StatusNoContent},
		{"disabled ignores stray header", "", "Bearer whatever", http.StatusNoContent},
		{"missing header rejected", "s3cret", "", http.StatusUnauthorized},
		{"wrong scheme rejected", "s3cret", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token rejected", "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"matching token passes", "s3cret", "Bearer s3cret", http.StatusNoContent},
		{"scheme is case insensitive", "s3cret", "bearer s3cret", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireToken(tt.token)(next)

			req := httptest.NewRequest(http.MethodPost, "/souls/dot/perceive", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
