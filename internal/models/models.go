package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleReader Role = "reader"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleReader:
		return RoleReader, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         Role      `gorm:"not null;default:reader"  json:"role"`
	Avatar       *string   `json:"avatar"`

	// Sha256 fingerprint of the single active refresh credential; nil when
	// no session is outstanding. Overwritten on every login/register, nulled
	// on logout.
	RefreshToken *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Post struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Title      string    `gorm:"size:200;not null"     json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null"  json:"slug"`
	Content    string    `gorm:"not null"              json:"content"`
	CoverImage *string   `json:"coverImage"`
	AuthorID   uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Author     User      `gorm:"foreignKey:AuthorID"   json:"author"`
	Tags       []string  `gorm:"serializer:json"       json:"tags"`
	Published  bool      `gorm:"default:false"         json:"published"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	PostID uuid.UUID `gorm:"type:uuid;index;not null" json:"post"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	User   User      `gorm:"foreignKey:UserID"        json:"user"`
	Text   string    `gorm:"size:500;not null"        json:"text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
