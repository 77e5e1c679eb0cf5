package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/carelink/internal/config"
	"github.com/BruksfildServices01/carelink/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate creates the schema and the partial unique index that keeps one
// active appointment per (doctor, date, time).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.AdminUser{},
		&models.Doctor{},
		&models.MedicalService{},
		&models.Appointment{},
		&models.ContentDocument{},
		&models.ContactMessage{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_slot
        ON appointments (doctor_id, appointment_date, appointment_time)
        WHERE status IN ('pending', 'confirmed')
    `).Error; err != nil {
		return fmt.Errorf("failed to create slot index: %w", err)
	}

	return nil
}
