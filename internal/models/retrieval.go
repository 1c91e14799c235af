package models

import "time"

// Retrieval 提货批次（retiradas），一次取货事件，写入后不可修改
type Retrieval struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                 // 主键
	PedidoID      uint      `gorm:"index;not null" json:"pedido_id"`                      // 订单ID
	CampanhaID    uint      `gorm:"index;not null" json:"campanha_id"`                    // 活动ID（冗余，便于查询）
	NomeRetirante string    `gorm:"type:varchar(160);not null" json:"nome_retirante"`     // 取货人
	CreatedAt     time.Time `gorm:"column:criado_em;index" json:"criado_em"`              // 创建时间

	Itens []RetrievalItem `gorm:"foreignKey:RetiradaID" json:"retiradas_itens,omitempty"` // 批次明细
}

// TableName 指定表名
func (Retrieval) TableName() string {
	return "retiradas"
}

// RetrievalItem 提货明细（retiradas_itens），数量必须大于 0
type RetrievalItem struct {
	ID           uint `gorm:"primarykey" json:"id"`                  // 主键
	RetiradaID   uint `gorm:"index;not null" json:"retirada_id"`     // 批次ID
	PedidoItemID uint `gorm:"index;not null" json:"pedido_item_id"`  // 订单项ID
	Quantidade   int  `gorm:"not null" json:"quantidade"`            // 本次取货数量
}

// TableName 指定表名
func (RetrievalItem) TableName() string {
	return "retiradas_itens"
}
