package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobudget/internal/usecase"
)

// numericArg matches a pgtype.Numeric argument by decimal value.
type numericArg struct {
	want decimal.Decimal
}

func (a numericArg) Match(v interface{}) bool {
	n, ok := v.(pgtype.Numeric)
	return ok && numericToDecimal(n).Equal(a.want)
}

func numeric(s string) pgtype.Numeric {
	return decimalToNumeric(decimal.RequireFromString(s))
}

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()

	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	require.NoError(t, err)

	return tx
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}
