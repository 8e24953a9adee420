package model

import "time"

// Like 点赞；likeid 全表单调递增，不按帖子重置
type Like struct {
	Likeid  int64     `json:"likeid" gorm:"column:likeid;primaryKey;autoIncrement"`
	Owner   string    `json:"owner" gorm:"column:owner;type:varchar(20);index:idx_like_pair,unique;not null"`
	// idx_like_pair 唯一键兜底重复点赞；idx_like_post 服务按帖计数和级联删除
	Postid  int64     `json:"postid" gorm:"column:postid;not null;index:idx_like_pair,unique;index:idx_like_post"`
	Created time.Time `json:"created" gorm:"column:created;not null;autoCreateTime"`

	OwnerUser User `json:"-" gorm:"foreignKey:Owner;references:Username;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Like) TableName() string { return "likes" }
