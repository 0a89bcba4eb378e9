package database

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLiteDriverName 注册到 database/sql 的驱动名
const SQLiteDriverName = "sqlite3_tagmind"

var registerSQLite sync.Once

// SQLite 返回 SQLite 方言
// 内置 lower() 只转换 ASCII，这里替换为 strings.ToLower，与查询参数的转换方式一致
func SQLite(dsn string) gorm.Dialector {
	registerSQLite.Do(func() {
		sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: SQLiteDriverName, DSN: dsn})
}

// unicodeLower NULL 原样返回
func unicodeLower(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	if b, ok := v.([]byte); ok && b == nil {
		return nil
	}
	return v
}
