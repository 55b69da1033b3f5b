// Package model 定义数据库实体模型
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo 用户信息，对应 user_info 表
// 关注关系不冗余在本表，见 UserFollow
type UserInfo struct {
	gorm.Model
	Uuid     string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`
	Username string `gorm:"column:username;uniqueIndex;type:varchar(32);not null;comment:登录名"`
	Nickname string `gorm:"column:nickname;type:varchar(32);not null;comment:昵称"`
	Email    string `gorm:"column:email;type:varchar(64);comment:邮箱"`
	Avatar   string `gorm:"column:avatar;type:varchar(255);comment:头像"`
	Bio      string `gorm:"column:bio;type:varchar(200);comment:个人简介"`
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码(bcrypt)"`
	Status   int8   `gorm:"column:status;index;not null;default:0;comment:状态，0.正常，1.禁用"`

	// RawPassword 明文密码，不落库，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave 将 RawPassword 加密后写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) error {
	if u.RawPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	u.RawPassword = ""
	return nil
}

// CheckPassword 校验明文密码
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}
