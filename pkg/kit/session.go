package kit

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// SessionHeader carries the opaque browsing-session identifier. One cart
// and one notification feed exist per session.
const SessionHeader = "X-Session-Id"

// EnsureSession returns the request's session id, minting a fresh one when
// the header is absent. The id is always echoed on the response so clients
// can persist it.
func EnsureSession(w http.ResponseWriter, r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id == "" {
		id = "s_" + uuid.NewString()
	}
	w.Header().Set(SessionHeader, id)
	return id
}
