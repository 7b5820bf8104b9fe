package metadata

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// RemoteError reports a failed request to the catalog. Status is zero when the
// request never produced a response or the body could not be decoded.
type RemoteError struct {
	Path   string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("openlibrary %s: status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("openlibrary %s: %v", e.Path, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a catalog 404
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Status == http.StatusNotFound
	}
	return strings.Contains(err.Error(), "404")
}
