package linking_test

import (
	"context"
	"testing"

	"platoon-pulse/internal/linking"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_FindByIDLocksInsideTx(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	id := uuid.NewString()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "linking_requests" LEFT JOIN "cadets" "Cadet" .* FOR UPDATE OF "linking_requests"$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(id, linking.StatusPending))
	mock.ExpectRollback()

	tx, err := sqlDB.Begin()
	assert.NoError(t, err)
	req, err := linking.NewRepository(db).WithTx(tx).FindByID(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, linking.StatusPending, req.Status)
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
