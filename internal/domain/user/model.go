package user

import "time"

const (
	RoleAdmin   = "admin"
	RoleClient  = "client"
	RoleCreator = "creator"
)

type User struct {
	UID      uint    `gorm:"primaryKey;column:u_id;autoIncrement" json:"u_id"`
	Username string  `gorm:"size:64;not null;unique" json:"username"`
	Password string  `gorm:"size:128;not null" json:"-"`
	Email    *string `gorm:"size:128" json:"email,omitempty"`
	FullName *string `gorm:"size:128" json:"full_name,omitempty"`
	Role     string  `gorm:"size:20;default:'client';not null" json:"role"`

	CreatedAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdatedAt time.Time `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
}

func (User) TableName() string {
	return "users"
}
