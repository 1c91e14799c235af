package models

import "time"

// Order 订单表（pedidos）
type Order struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                         // 主键
	CampanhaID     uint      `gorm:"index;not null" json:"campanha_id"`                            // 活动ID
	CodigoPedido   string    `gorm:"type:varchar(40);uniqueIndex;not null" json:"codigo_pedido"`   // 订单编号
	NomeComprador  string    `gorm:"type:varchar(160);not null;index" json:"nome_comprador"`       // 购买人
	Whatsapp       string    `gorm:"type:varchar(32);index" json:"whatsapp"`                       // 联系电话（仅数字）
	NomeReferencia string    `gorm:"type:varchar(160);index" json:"nome_referencia"`               // 推荐人（募捐成员）
	Quantidade     int       `gorm:"not null;default:0" json:"quantidade"`                         // 申报的披萨总数
	ValorTotal     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"valor_total"`     // 订单金额
	Status         string    `gorm:"type:varchar(32);index;not null" json:"status"`                // 订单状态
	CreatedAt      time.Time `gorm:"column:criado_em;index" json:"criado_em"`                      // 创建时间

	Campanha *Campaign   `gorm:"foreignKey:CampanhaID" json:"campanhas,omitempty"`   // 关联活动
	Itens    []OrderItem `gorm:"foreignKey:PedidoID" json:"pedido_itens,omitempty"`  // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "pedidos"
}
