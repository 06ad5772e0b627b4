package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func tokenEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(BotTokenFromContext(r.Context())))
	})
}

func TestBotTokenMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bot scheme", "Bot abc.def.ghi", "abc.def.ghi"},
		{"surrounding spaces", "Bot   tok  ", "tok"},
		{"missing header", "", ""},
		{"bearer scheme ignored", "Bearer secret", ""},
		{"empty token", "Bot ", ""},
		{"lowercase scheme ignored", "bot tok", ""},
	}

	handler := BotTokenMiddleware()(tokenEcho())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/1", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			if got := rr.Body.String(); got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}
