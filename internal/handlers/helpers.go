package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/auth"
	"github.com/GENZ-ARSH/GENZ-CORE-sub000/internal/models"
)

func userFromRequest(r *http.Request, authService *auth.Service) (*models.User, error) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenStr = strings.TrimPrefix(h, "Bearer ")
		}
	}
	if tokenStr == "" {
		return nil, fmt.Errorf("missing token")
	}

	return authService.GetUserFromToken(r.Context(), tokenStr)
}

// idFromPath extracts the numeric id at /prefix/{id}/...
func idFromPath(r *http.Request) (int, error) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 3 {
		return 0, fmt.Errorf("invalid path")
	}

	return strconv.Atoi(parts[2])
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
