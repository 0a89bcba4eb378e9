// Package dbtest 为测试提供迁移完成的内存 SQLite 数据库
package dbtest

import (
	"testing"

	"tagmind/pkg/database"
	"tagmind/pkg/database/migrations"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Setup 打开内存数据库并替换 database.DB，测试结束后恢复
func Setup(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.SQLite(":memory:"), gormlogger.Discard)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库随连接存在，只保留一个连接
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(migrations.RegisterTables()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	previous, previousSQL := database.DB, database.SQLDB
	database.DB, database.SQLDB = db, sqlDB
	t.Cleanup(func() {
		database.DB, database.SQLDB = previous, previousSQL
		_ = sqlDB.Close()
	})
	return db
}
