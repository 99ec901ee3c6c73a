package utils

import (
	"fmt"
	"time"

	"github.com/furkangunes-ai/video-editing-course-web/config"
	"github.com/furkangunes-ai/video-editing-course-web/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LegacyCourseID is the single course the deprecated users.has_access
// flag historically referred to.
const LegacyCourseID uint = 1

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and translates legacy access flags into
// explicit grants.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.UserProgress{},
		&models.CourseAccess{},
		&models.Order{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAttempt{},
		&models.CourseContent{},
		&models.Referral{},
		&models.ReferralSettings{},
		&models.DiscountCode{},
	)
	if err != nil {
		return err
	}

	return migrateLegacyAccess(db)
}

// migrateLegacyAccess backfills a course_accesses row for every user
// that still carries the old global flag. Safe to run on every boot.
func migrateLegacyAccess(db *gorm.DB) error {
	var users []models.User
	if err := db.Where("has_access = ?", true).Find(&users).Error; err != nil {
		return err
	}

	for _, user := range users {
		grant := models.CourseAccess{
			UserID:    user.ID,
			CourseID:  LegacyCourseID,
			GrantedBy: "legacy_migration",
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&grant).Error
		if err != nil {
			return err
		}
	}

	return nil
}
