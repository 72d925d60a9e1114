package helpers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// GetIntParam fetches a parameter from the route variables as an integer and
// answers 400 when it is missing or malformed.
func GetIntParam(name string, w http.ResponseWriter, r *http.Request) (int, error) {
	intParam, err := strconv.Atoi(mux.Vars(r)[name])

	if err != nil {
		WriteErrorStatus(w, "invalid "+name, http.StatusBadRequest)
		return 0, err
	}

	return intParam, nil
}
