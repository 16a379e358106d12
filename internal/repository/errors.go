package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolationCode はPostgreSQLのunique_violationエラーコード。
const uniqueViolationCode = "23505"

// IsUniqueViolation はエラーがPostgreSQLの一意制約違反かを判定する。
// サービス層で重複登録をConflictエラーにマッピングするために使用する。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}
