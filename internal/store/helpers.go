package store

import (
	"database/sql"
	"errors"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// rollbackWithError is deferred after BeginTx; a committed transaction
// reports sql.ErrTxDone, which is not a failure.
func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if rErr := rb.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) && *err == nil {
		*err = rErr
	}
}
