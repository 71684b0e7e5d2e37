package ingest

import "errors"

// ErrInsufficientText indicates extraction yielded too little content to
// analyze. Callers that staged the document should remove it.
var ErrInsufficientText = errors.New("extracted text below minimum length")
