package model

import "time"

// Comment 帖子评论
type Comment struct {
	Commentid int64     `json:"commentid" gorm:"column:commentid;primaryKey;autoIncrement"`
	Owner     string    `json:"owner" gorm:"column:owner;type:varchar(20);not null"`
	Postid    int64     `json:"postid" gorm:"column:postid;index:idx_comment_post;not null"`
	Text      string    `json:"text" gorm:"column:text;type:text;not null"`
	Created   time.Time `json:"created" gorm:"column:created;not null;autoCreateTime"`

	OwnerUser User `json:"-" gorm:"foreignKey:Owner;references:Username;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Comment) TableName() string { return "comments" }
