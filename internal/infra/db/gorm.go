package db

import (
	"fmt"
	"time"

	"shop/internal/config"
	"shop/internal/domain/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.DatabaseConfig, env string, log *zap.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if env == "development" {
		logLevel = gormlogger.Info
	}

	gl := gormlogger.New(zap.NewStdLog(log), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})

	gdb, err := gorm.Open(postgres.New(postgres.Config{DSN: cfg.DSN()}), &gorm.Config{
		Logger: gl,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return gdb, nil
}

// Migrate はスキーマを作成・更新する
func Migrate(gdb *gorm.DB, log *zap.Logger) error {
	start := time.Now()
	if err := gdb.AutoMigrate(model.All()...); err != nil {
		log.Error("database migration failed", zap.Error(err))
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	log.Info("database migration completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// Close は接続プールを閉じる
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
