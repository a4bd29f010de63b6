package datastore

import (
	"database/sql"
	"errors"
)

// skipNoRows treats an empty RETURNING set, as produced by ON CONFLICT DO NOTHING, as success.
func skipNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
