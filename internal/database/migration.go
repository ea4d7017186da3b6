package database

import (
	"fmt"

	"github.com/wfunc/slot-sim/internal/logger"
	"github.com/wfunc/slot-sim/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}
	return Migrate(DB)
}

// Migrate 在指定连接上迁移回合日志表
func Migrate(db *gorm.DB) error {
	migrationModels := []interface{}{
		&models.Round{},
	}

	for _, model := range migrationModels {
		if err := db.AutoMigrate(model); err != nil {
			logger.Error("数据库迁移失败", zap.Error(err), zap.String("model", fmt.Sprintf("%T", model)))
			return fmt.Errorf("迁移 %T 失败: %w", model, err)
		}
	}

	logger.Info("数据库迁移完成", zap.Int("tables", len(migrationModels)))
	return nil
}
