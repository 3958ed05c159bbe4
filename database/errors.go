package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrorNumber returns the MySQL server error number carried by err.
func ErrorNumber(err error) (uint16, bool) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number, true
	}
	return 0, false
}
