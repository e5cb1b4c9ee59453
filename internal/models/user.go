package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Fullname       string         `gorm:"size:100;not null" json:"fullname"`
	Username       string         `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email          string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Gender         string         `gorm:"size:10;not null" json:"gender"`
	BirthDate      time.Time      `gorm:"not null" json:"birth_date"`
	PasswordHash   string         `gorm:"not null" json:"-"`
	Role           string         `gorm:"size:20;not null;default:'member'" json:"role"`
	ProfilePicture string         `gorm:"size:255;default:'user.jpg'" json:"profile_picture"`
	IsActive       bool           `gorm:"not null;default:false" json:"is_active"`
	ActivationCode string         `gorm:"size:64;index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
