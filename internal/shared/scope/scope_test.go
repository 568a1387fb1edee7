package scope

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type row struct {
	ID      string
	CadetID string
	Kind    string
}

func dryRun(t *testing.T) *gorm.DB {
	sqlDB, _, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DryRun: true})
	assert.NoError(t, err)
	return db
}

func TestScopes(t *testing.T) {
	db := dryRun(t)

	var rows []row
	stmt := db.Table("rows").Scopes(Cadet("c1"), Equal("kind", "TRAINING")).Find(&rows).Statement
	assert.Equal(t, `SELECT * FROM "rows" WHERE cadet_id = $1 AND kind = $2`, stmt.SQL.String())
	assert.Equal(t, []interface{}{"c1", "TRAINING"}, stmt.Vars)

	stmt = db.Table("rows").Scopes(Equal("kind", "")).Find(&rows).Statement
	assert.Equal(t, `SELECT * FROM "rows"`, stmt.SQL.String())
	assert.Empty(t, stmt.Vars)
}
