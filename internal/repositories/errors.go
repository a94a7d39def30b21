package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation — страховка на случай гонки: проверки уникальности в
// сервисах идут до INSERT, но индекс в БД остаётся последним рубежом.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
