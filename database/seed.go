package database

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

// Seed inserts the baseline records a fresh database needs: the admin
// account and the loyalty tiers. It is safe to call on every boot.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedTiers(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		utils.InfoLogger.Println("ADMIN_PASSWORD not set, using default admin password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    "admin@serenitybay.example",
		Password: string(hash),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded admin account %s", admin.Email)
	return nil
}

func seedTiers(db *gorm.DB) error {
	var count int64
	db.Model(&models.Tier{}).Count(&count)
	if count > 0 {
		return nil
	}

	tiers := []models.Tier{
		{Name: "Bronze", MinPoints: 0, DiscountPercent: 0},
		{Name: "Silver", MinPoints: 500, DiscountPercent: 3},
		{Name: "Gold", MinPoints: 2000, DiscountPercent: 5},
		{Name: "Platinum", MinPoints: 5000, DiscountPercent: 8},
	}
	if err := db.Create(&tiers).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d loyalty tiers", len(tiers))
	return nil
}
