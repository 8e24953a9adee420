package model

import "time"

// Post 内容主体（postid 自增且删除后不复用）
type Post struct {
	Postid   int64     `json:"postid" gorm:"column:postid;primaryKey;autoIncrement"`
	Filename string    `json:"filename" gorm:"column:filename;type:varchar(64);not null"`
	Owner    string    `json:"owner" gorm:"column:owner;type:varchar(20);index:idx_post_owner;not null"`
	Created  time.Time `json:"created" gorm:"column:created;not null;autoCreateTime"`

	OwnerUser User `json:"-" gorm:"foreignKey:Owner;references:Username;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	// 子表关联从父侧声明，外键建在 comments/likes 上
	Comments []Comment `json:"-" gorm:"foreignKey:Postid;references:Postid;constraint:OnDelete:CASCADE"`
	Likes    []Like    `json:"-" gorm:"foreignKey:Postid;references:Postid;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string { return "posts" }
