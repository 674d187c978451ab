package detect

import (
	"errors"
	"fmt"
)

// ErrEmptyCorpus is returned when a run is started with no documents.
var ErrEmptyCorpus = errors.New("corpus contains no documents")

// ConfigurationError reports an invalid detection setting. It is returned before
// any document is processed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DegenerateDocumentWarning records a document with fewer tokens than the shingle
// length. The run continues with an empty shingle set for it.
type DegenerateDocumentWarning struct {
	Document   string
	Tokens     int
	ShingleLen int
}

func (w DegenerateDocumentWarning) String() string {
	return fmt.Sprintf("%s has %d token(s), fewer than shingle length %d", w.Document, w.Tokens, w.ShingleLen)
}
