package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hhmm string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04", "2024-03-01 "+hhmm)
	if err != nil {
		panic(err)
	}
	return ts
}

// ครึ่งเปิด [start, end): ชนขอบพอดีไม่นับว่าทับ
func TestSlotsOverlap(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"contained", "10:00", "11:00", "10:30", "10:45", true},
		{"contains", "10:30", "10:45", "10:00", "11:00", true},
		{"partial left", "09:30", "10:30", "10:00", "11:00", true},
		{"partial right", "10:30", "11:30", "10:00", "11:00", true},
		{"touching end-start", "09:00", "10:00", "10:00", "11:00", false},
		{"touching start-end", "11:00", "12:00", "10:00", "11:00", false},
		{"disjoint before", "08:00", "09:00", "10:00", "11:00", false},
		{"disjoint after", "12:00", "13:00", "10:00", "11:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlotsOverlap(at(tt.aStart), at(tt.aEnd), at(tt.bStart), at(tt.bEnd))
			assert.Equal(t, tt.want, got)
			// สมมาตร: สลับสองช่วงได้ผลเท่ากัน
			assert.Equal(t, got, SlotsOverlap(at(tt.bStart), at(tt.bEnd), at(tt.aStart), at(tt.aEnd)))
		})
	}
}

func TestActiveBookingStatuses(t *testing.T) {
	active := ActiveBookingStatuses()
	assert.ElementsMatch(t,
		[]BookingStatus{BookingRequested, BookingAccepted, BookingInProgress}, active)
	assert.NotContains(t, active, BookingCompleted)
	assert.NotContains(t, active, BookingCancelled)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("mentor")
	assert.True(t, ok)
	assert.Equal(t, RoleMentor, r)

	r, ok = ParseRole(" ADMIN ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("teacher")
	assert.False(t, ok)
}
