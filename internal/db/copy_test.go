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
	n, err := CopyFrom(context.TODO(), nil, "features", []string{"a", "b"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"features"}, []string{"layer", "latitude", "longitude"}).WillReturnResult(2)

	rows := [][]any{
		{"substation", 57.1, -2.1},
		{"water", 57.2, -2.0},
	}
	n, err := CopyFrom(context.Background(), mock, "features", []string{"layer", "latitude", "longitude"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"features"}, []string{"layer"}).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "features", []string{"layer"}, [][]any{{"fiber"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO features")
	assert.NoError(t, mock.ExpectationsWereMet())
}
