package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/showroomlab/showroom-token-service/internal/usecase"
)

// Router dispatches the public endpoints. Method and path matching is
// explicit so unmatched methods answer 405 with an Allow header.
type Router struct {
	intake usecase.IntakeUsecase
	access usecase.AccessUsecase
	log    *slog.Logger
}

func NewRouter(intake usecase.IntakeUsecase, access usecase.AccessUsecase, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{intake: intake, access: access, log: log}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	case r.URL.Path == "/orders":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		rt.handleOrderWebhook(w, r)

	case r.URL.Path == "/login":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		rt.handleLogin(w, r)

	case strings.HasPrefix(r.URL.Path, "/showroom-mails/") && strings.HasSuffix(r.URL.Path, "/send"):
		email, ok := resendEmail(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		rt.handleResend(w, r, email)

	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

// resendEmail extracts the address from /showroom-mails/{email}/send.
func resendEmail(path string) (string, bool) {
	segment := strings.TrimSuffix(strings.TrimPrefix(path, "/showroom-mails/"), "/send")
	if segment == "" || strings.Contains(segment, "/") {
		return "", false
	}
	email, err := url.PathUnescape(segment)
	if err != nil || email == "" {
		return "", false
	}
	return email, true
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
