package models

import "time"

// CampaignItem 活动与商品的关联（itens_campanha），价格、排序与启用状态按活动生效
type CampaignItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                 // 主键
	CampanhaID uint      `gorm:"not null;uniqueIndex:idx_itens_campanha_pair" json:"campanha_id"`      // 活动ID
	ItemID     uint      `gorm:"not null;uniqueIndex:idx_itens_campanha_pair;index" json:"item_id"`    // 商品ID
	Ordem      int       `gorm:"not null;default:0" json:"ordem"`                                      // 排序
	Preco      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"preco"`                   // 活动内价格
	Ativo      bool      `gorm:"not null;default:true" json:"ativo"`                                   // 活动内是否启用
	CreatedAt  time.Time `gorm:"column:criado_em;index" json:"criado_em"`                              // 创建时间

	Item *Item `gorm:"foreignKey:ItemID" json:"itens,omitempty"` // 关联商品
}

// TableName 指定表名
func (CampaignItem) TableName() string {
	return "itens_campanha"
}
