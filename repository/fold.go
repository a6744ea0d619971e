package repository

import (
	"database/sql/driver"
	"fmt"

	"hukukai-backend/keywords"

	"modernc.org/sqlite"
)

// foldFunc is the SQL function both dialects use to fold text before LIKE
const foldFunc = "trlower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case nil:
			return nil, nil
		case string:
			return keywords.Lower(v), nil
		case []byte:
			return keywords.Lower(string(v)), nil
		default:
			return keywords.Lower(fmt.Sprint(v)), nil
		}
	})
}

// foldedPattern is containsPattern over Turkish-folded text; compare it with trlower(column)
func foldedPattern(s string) string {
	return containsPattern(keywords.Lower(s))
}
