package model

import "time"

// Follow 关注关系（username1 关注 username2），有向
type Follow struct {
	// 复合主键，避免重复关注
	Username1 string    `json:"username1" gorm:"column:username1;primaryKey;type:varchar(20)"`
	Username2 string    `json:"username2" gorm:"column:username2;primaryKey;type:varchar(20)"`
	Created   time.Time `json:"created" gorm:"column:created;not null;autoCreateTime"`

	Follower User `json:"-" gorm:"foreignKey:Username1;references:Username;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Followee User `json:"-" gorm:"foreignKey:Username2;references:Username;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Follow) TableName() string { return "following" }
