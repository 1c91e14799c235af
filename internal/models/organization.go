package models

import "time"

// Organization 组织表（organizacoes）
type Organization struct {
	ID        uint      `gorm:"primarykey" json:"id"`                    // 主键
	Nome      string    `gorm:"type:varchar(160);not null" json:"nome"`  // 组织名称
	Ativo     bool      `gorm:"not null;default:true;index" json:"ativo"` // 是否启用
	CreatedAt time.Time `gorm:"column:criado_em;index" json:"criado_em"` // 创建时间
}

// TableName 指定表名
func (Organization) TableName() string {
	return "organizacoes"
}
