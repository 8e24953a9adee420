package model

import "time"

// User 用户（username 即主键，注册后不可变）
type User struct {
	Username string    `json:"username" gorm:"column:username;primaryKey;type:varchar(20)"`
	Fullname string    `json:"fullname" gorm:"column:fullname;type:varchar(40);not null"`
	Email    string    `json:"email" gorm:"column:email;type:varchar(40);not null"`
	Filename string    `json:"filename" gorm:"column:filename;type:varchar(64);not null"`
	// password 存储格式：<algorithm>$<salt>$<hash>
	Password string    `json:"-" gorm:"column:password;type:varchar(256);not null"`
	Created  time.Time `json:"created" gorm:"column:created;not null;autoCreateTime"`
}

func (User) TableName() string { return "users" }
