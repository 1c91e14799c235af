package models

// OrderItem 订单项（pedido_itens），创建后不再修改
type OrderItem struct {
	ID         uint `gorm:"primarykey" json:"id"`                 // 主键
	PedidoID   uint `gorm:"index;not null" json:"pedido_id"`      // 订单ID
	ItemID     uint `gorm:"index;not null" json:"item_id"`        // 商品ID
	Quantidade int  `gorm:"not null" json:"quantidade"`           // 订购数量

	Item *Item `gorm:"foreignKey:ItemID" json:"itens,omitempty"` // 关联商品
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "pedido_itens"
}
