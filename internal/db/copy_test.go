package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "employees", []string{"first_name", "last_name"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"employees"}, []string{"first_name", "last_name"}).WillReturnResult(3)

	rows := [][]any{{"Rita", "Kroes"}, {"Jan", "de Vries"}, {"Ada", "Okafor"}}
	n, err := CopyFrom(context.Background(), mock, "employees", []string{"first_name", "last_name"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"employees"}, []string{"first_name"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{"Rita"}}
	_, err = CopyFrom(context.Background(), mock, "employees", []string{"first_name"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO employees")
	assert.NoError(t, mock.ExpectationsWereMet())
}
