package models

import "time"

// Item 商品目录（itens），可在多个活动中复用
type Item struct {
	ID        uint      `gorm:"primarykey" json:"id"`                    // 主键
	Nome      string    `gorm:"type:varchar(160);not null" json:"nome"`  // 口味/商品名称
	Ativo     bool      `gorm:"not null;default:true;index" json:"ativo"` // 是否启用
	CreatedAt time.Time `gorm:"column:criado_em;index" json:"criado_em"` // 创建时间
}

// TableName 指定表名
func (Item) TableName() string {
	return "itens"
}
