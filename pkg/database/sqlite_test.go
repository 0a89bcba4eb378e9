package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := Open(SQLite(":memory:"), gormlogger.Discard)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	var folded string
	require.NoError(t, db.Raw("SELECT lower(?)", "École ÜBER Straße").Scan(&folded).Error)
	assert.Equal(t, "école über straße", folded)

	var isNull bool
	require.NoError(t, db.Raw("SELECT lower(NULL) IS NULL").Scan(&isNull).Error)
	assert.True(t, isNull)
}
