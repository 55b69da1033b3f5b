// Package dbtest 为测试提供独立的内存 SQLite 数据库
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"wanderlog/internal/config"
	dao "wanderlog/internal/dao/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open 每个测试一个命名内存库，连接数限制为 1 以保证共享同一份数据
// 事务内的代码必须只使用事务句柄，否则会等待唯一的连接
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := dao.Open(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, dao.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
