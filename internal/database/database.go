package database

import (
	"leadmart/config"
	"leadmart/internal/domain"
	"leadmart/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true, // duplicate-key errors surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.VendorPreference{},
		&models.VendorQuota{},
		&models.Plan{},
		&models.VendorSubscription{},
		&models.Lead{},
		&models.LeadPurchase{},
		&models.LeadContact{},
		&models.ReferralWallet{},
		&models.WalletLedgerEntry{},
		&models.ReferralCode{},
		&models.Referral{},
		&models.BankDetail{},
		&models.CashoutRequest{},
		&models.Payment{},
	)
}

// SeedPlans inserts the default plan catalog when the table is empty.
func SeedPlans(db *gorm.DB, log *logrus.Logger) {
	var count int64
	if err := db.Model(&models.Plan{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	plans := []models.Plan{
		{Name: "Starter", DailyLimit: 5, WeeklyLimit: 20, YearlyLimit: 500, PriceCents: 499900, DurationDays: 30},
		{Name: "Growth", DailyLimit: 15, WeeklyLimit: 75, YearlyLimit: 2000, PriceCents: 1499900, DurationDays: 30},
		{Name: "Enterprise", DailyLimit: 0, WeeklyLimit: 0, YearlyLimit: 10000, PriceCents: 4999900, DurationDays: 365},
	}
	if err := db.Create(&plans).Error; err != nil {
		log.WithError(err).Warn("failed to seed plan catalog")
	}
}

// SeedAdmin creates a default admin account when none exists.
func SeedAdmin(db *gorm.DB, log *logrus.Logger, email, password string) {
	if email == "" || password == "" {
		return
	}
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil || count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.WithError(err).Warn("failed to seed admin user")
	}
}
