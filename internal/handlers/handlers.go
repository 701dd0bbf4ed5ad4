package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"todolist/internal/models"
	"todolist/internal/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrMissingParameter is returned when a required body field is absent.
var ErrMissingParameter = errors.New("missing request body parameter")

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store  store.Store
	newID  models.IDGenerator
	logger *log.Logger
}

// New creates a new Handlers instance. A nil newID falls back to random UUIDs.
func New(s store.Store, newID models.IDGenerator, logger *log.Logger) *Handlers {
	if newID == nil {
		newID = models.UUIDGenerator
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handlers{
		store:  s,
		newID:  newID,
		logger: logger,
	}
}

// readBody reads the request body. An absent body reads as empty.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	return body, nil
}

// requireFields checks that body is a JSON object holding every field.
// Presence is what counts: a field set to null is present.
func requireFields(body []byte, fields ...string) error {
	for _, field := range fields {
		if !lookup(body, field).Exists() {
			return errors.Wrapf(ErrMissingParameter, "%s", field)
		}
	}
	return nil
}

// lookup returns the value of a top-level field of a JSON object body.
// When a key repeats, the last occurrence wins, as with JSON.parse.
func lookup(body []byte, name string) gjson.Result {
	var found gjson.Result
	if !gjson.ValidBytes(body) {
		return found
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return found
	}
	doc.ForEach(func(key, value gjson.Result) bool {
		if key.String() == name {
			found = value
		}
		return true
	})
	return found
}

// entry is the one-key response for a written todo. The value is echoed
// in its request JSON form, while the store always holds its string form.
func entry(id string, value gjson.Result) map[string]json.RawMessage {
	return map[string]json.RawMessage{id: json.RawMessage(value.Raw)}
}

// respondJSON writes v as a JSON response with status 200.
func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatusJSON(w, http.StatusOK, v)
}

// respondStatusJSON writes v as a JSON response with the given status.
func respondStatusJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// respondError sends a JSON error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondStatusJSON(w, code, map[string]string{"error": message})
}

func (h *Handlers) respondServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal server error", "path", r.URL.Path, "err", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}
