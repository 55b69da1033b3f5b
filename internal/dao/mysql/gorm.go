// Package dao 负责建立数据库连接、迁移表结构并初始化 Repository 层
// 目录沿用 mysql 命名，实际通过 databaseConfig.driver 支持 mysql / postgres / sqlite
package dao

import (
	"fmt"

	"wanderlog/internal/config"
	"wanderlog/internal/dao/mysql/repository"
	"wanderlog/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB 全局 GORM 实例
var GormDB *gorm.DB

// Repos 全局 Repository 聚合，供 Service 层注入
var Repos *repository.Repositories

// Init 按全局配置连接数据库并迁移，失败直接退出进程
func Init() {
	db, err := Open(&config.GetConfig().DatabaseConfig)
	if err != nil {
		zap.L().Fatal("open database failed", zap.Error(err))
	}
	if err := Migrate(db); err != nil {
		zap.L().Fatal("migrate database failed", zap.Error(err))
	}
	GormDB = db
	Repos = repository.NewRepositories(GormDB)
}

// Open 根据驱动类型建立连接
// TranslateError 打开后唯一键冲突会被翻译为 gorm.ErrDuplicatedKey
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DatabaseName)
		return mysql.Open(dsn), nil
	case "postgres":
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DatabaseName, sslMode)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate 自动迁移表结构，只增不删
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserInfo{},
		&model.UserFollow{},
		&model.Message{},
		&model.MessageRequest{},
	)
}
