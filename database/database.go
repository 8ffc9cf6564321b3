package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taejun-song/study-room-system/config"
	"github.com/taejun-song/study-room-system/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	Migrate(DB)
}

// Migrate รัน AutoMigrate ทั้งหมด + constraint ที่ GORM สร้างให้ไม่ได้
// (แยกออกมาให้เทสต์เรียกกับ sqlite in-memory ได้)
func Migrate(db *gorm.DB) {
	if err := db.AutoMigrate(
		&models.User{},
		&models.MentorProfile{},
		&models.ParentLink{},
		&models.MentorAssignment{},
		&models.AbsenceRequest{},
		&models.QABooking{},
		&models.AttendanceSession{},
		&models.StudyLog{},
		&models.ExamScore{},
		&models.JoinCode{},
		&models.MessageThread{},
		&models.Message{},
		&models.Announcement{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	// กันจองซ้อน race ระดับ DB: exclusion constraint บน (mentor_id, ช่วงเวลา)
	// เฉพาะสถานะที่ยังกิน slot อยู่ — มีเฉพาะ Postgres; sqlite (เทสต์) เขียนใน tx เดียวอยู่แล้ว
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
			log.Printf("[migrate] warn: btree_gist extension: %v", err)
			return
		}
		var n int64
		db.Raw(`SELECT count(*) FROM pg_constraint WHERE conname = 'qa_bookings_no_overlap'`).Scan(&n)
		if n == 0 {
			if err := db.Exec(`
				ALTER TABLE qa_bookings
				ADD CONSTRAINT qa_bookings_no_overlap
				EXCLUDE USING gist (
					mentor_id WITH =,
					tstzrange(slot_start, slot_end) WITH &&
				)
				WHERE (status IN ('REQUESTED','ACCEPTED','IN_PROGRESS'))
			`).Error; err != nil {
				log.Printf("[migrate] warn: qa_bookings_no_overlap: %v", err)
			}
		}
	}
}

// LockForUpdate ล็อกแถวแบบ FOR UPDATE เฉพาะ dialect ที่รองรับ
// (sqlite ไม่มี FOR UPDATE แต่ serialize การเขียนใน transaction ให้อยู่แล้ว)
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
