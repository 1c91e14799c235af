package models

import (
	"time"

	"github.com/desbrava-pizza/internal/constants"

	"gorm.io/gorm"
)

// Admin 后台用户表（usuarios）
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`         // 登录账号
	Nome         string         `gorm:"type:varchar(120)" json:"nome"`                // 显示名称
	PasswordHash string         `gorm:"not null" json:"-"`                            // 密码哈希（不返回给前端）
	Perfil       string         `gorm:"type:varchar(32);not null;index" json:"perfil"` // 角色：admin / entregador / financeiro
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                  // Token 版本（用于全量失效）
	LastLoginAt  *time.Time     `json:"last_login_at"`                                // 最后登录时间
	CreatedAt    time.Time      `gorm:"column:criado_em;index" json:"criado_em"`      // 创建时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Admin) TableName() string {
	return "usuarios"
}

// IsAdmin 是否为管理员（usuarios.perfil = admin）
func (a Admin) IsAdmin() bool {
	return a.Perfil == constants.ProfileAdmin
}
