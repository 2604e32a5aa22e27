package postgres

import (
	"log"

	"github.com/showroomlab/showroom-token-service/internal/config"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/logger"
	"github.com/showroomlab/showroom-token-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.AppConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.TokenDB.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access sql.DB: %v\n", err.Error())
	}
	sqlDB.SetMaxOpenConns(cfg.TokenDB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.TokenDB.MaxOpenConns)

	db.AutoMigrate(&models.AccessTokenModel{}, &logger.WebhookProcessedEvent{})

	return db
}
