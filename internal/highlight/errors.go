package highlight

import "errors"

// ErrNotFound reports that no page plausibly contains the phrase. It is the
// normal outcome for an absent phrase, not a failure: callers branch on it
// with errors.Is and surface a user-facing message. The engine is
// deterministic, so retrying the same inputs returns it again.
var ErrNotFound = errors.New("phrase not found")
