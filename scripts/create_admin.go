// scripts/create_admin.go
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taejun-song/study-room-system/config"
	"github.com/taejun-song/study-room-system/database"
	"github.com/taejun-song/study-room-system/models"
)

func main() {
	// โหลด config และเชื่อม DB ตามที่ main.go ใช้จริง
	cfg := config.Load()
	database.Connect(cfg)

	email := "admin@studyroom.local"
	password := "admin1234"
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		email = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		password = v
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// ตรวจว่ามี admin อีเมลนี้อยู่แล้วหรือไม่
	var existing models.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("⚠️  Admin user already exists with email:", email)
		os.Exit(0)
	}

	u := models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		Status:       models.UserActive,
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	fmt.Println("✅ Admin user created successfully!")
	fmt.Println("   Email:", email)
	fmt.Println("   Password:", password, "(plain, remember to change later!)")
}
