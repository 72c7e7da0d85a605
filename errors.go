package problemo

import "errors"

// ErrNoBackend indicates that none of the supported solver libraries
// could be loaded in this process. Nothing in problemo can proceed
// without a backend, so callers should treat this as fatal at startup
// (MustDefault turns it into a panic).
var ErrNoBackend = errors.New("problemo: could not load backend")
