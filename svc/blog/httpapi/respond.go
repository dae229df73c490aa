package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/blogkit/pkg/logger"
	"github.com/dmitrymomot/blogkit/pkg/rbac"
	"github.com/dmitrymomot/blogkit/pkg/validator"
	"github.com/dmitrymomot/blogkit/svc/blog"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// fail maps a domain error to a response. Internal error text is logged, never
// sent to the client.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case validator.IsValidationError(err):
		verrs := validator.ExtractValidationErrors(err)
		fields := make(map[string][]string, len(verrs.Fields()))
		for _, f := range verrs.Fields() {
			fields[f] = verrs.Get(f)
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "The given data was invalid.", Fields: fields})
	case errors.Is(err, blog.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid login.")
	case errors.Is(err, rbac.ErrUnknownRole):
		writeError(w, http.StatusBadRequest, "Unknown role.")
	case errors.Is(err, rbac.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "Access denied. Insufficient permissions.")
	case errors.Is(err, blog.ErrPostNotFound), errors.Is(err, blog.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, blog.ErrUserExists):
		writeError(w, http.StatusConflict, "Username or email already registered.")
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, "Malformed request.")
	default:
		a.log.ErrorContext(r.Context(), "request failed", logger.Error(err), logger.Component("http"))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, a.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errBadRequest
	}
	return nil
}

// queryInt reads a positive integer query parameter, or 0.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadRequest
	}
	return id, nil
}

func actor(r *http.Request) int64 {
	id, ok := rbac.ActorFromContext(r.Context())
	if !ok {
		return rbac.Anonymous
	}
	return id
}
