package httpserver

import (
	"net/http"

	"github.com/simpleg-eu/cp-config/internal/cperr"
	"github.com/simpleg-eu/cp-config/internal/errorkind"
)

// writeSupplyError maps a supply-chain error to an HTTP status using the
// stable client-fault classification in errorkind: not_found becomes 400,
// everything else becomes 500. The response body is the error's
// stringified form.
func writeSupplyError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errorkind.IsClientFault(cperr.KindOf(err)) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
