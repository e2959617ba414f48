package contract

import "errors"

// ErrStorage marks persistence failures the caller may treat as non-fatal.
var ErrStorage = errors.New("storage operation failed")
