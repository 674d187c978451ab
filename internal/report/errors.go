package report

import "errors"

// ErrUnsupportedVersion indicates a report written by an incompatible build.
var ErrUnsupportedVersion = errors.New("unsupported report version")
