package helpers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/trailfeathers/trailfeathers/services/cache"
)

// WriteCachedJSON serves key from the list cache, falling back to load and
// filling the cache on a miss. A fill is dropped when key was invalidated
// while load ran. Errors from load are written as usual.
func WriteCachedJSON(w http.ResponseWriter, r *http.Request, c cache.Cache, key string, load func() (any, error)) {
	if body, ok := c.Get(r.Context(), key); ok {
		WriteRawJSON(w, http.StatusOK, body)
		return
	}

	generation := c.Generation(r.Context(), key)

	res, err := load()
	if err != nil {
		WriteError(w, err)
		return
	}

	body, err := json.Marshal(res)
	if err != nil {
		log.WithError(err).WithField("key", key).Error("failed to encode list")
		WriteErrorStatus(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	c.Fill(r.Context(), key, generation, body)
	WriteRawJSON(w, http.StatusOK, body)
}
