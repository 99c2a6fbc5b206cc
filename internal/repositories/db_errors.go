package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntry checks if the error corresponds to a MySQL/MariaDB
// unique constraint violation. Repositories translate these into
// domain errors so races on unique keys never leak as raw DB errors.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
