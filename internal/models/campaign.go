package models

import "time"

// Campaign 活动表（campanhas）
type Campaign struct {
	ID                   uint       `gorm:"primarykey" json:"id"`                                              // 主键
	OrganizacaoID        uint       `gorm:"index;not null" json:"organizacao_id"`                              // 所属组织
	Nome                 string     `gorm:"type:varchar(160);not null" json:"nome"`                            // 活动名称
	DataInicio           *time.Time `gorm:"index" json:"data_inicio"`                                          // 开始日期
	DataFim              *time.Time `json:"data_fim"`                                                          // 结束日期
	PrecoBase            Money      `gorm:"type:decimal(20,2);not null;default:0" json:"preco_base"`           // 单个披萨售价
	CustoPizza           Money      `gorm:"type:decimal(20,2);not null;default:0" json:"custo_pizza"`          // 单个披萨成本（仅报表使用）
	IdentificadorCentavos int       `gorm:"not null;default:0" json:"identificador_centavos"`                  // 付款识别用的分值
	Ativa                bool       `gorm:"not null;default:false;index" json:"ativa"`                         // 是否进行中
	CreatedAt            time.Time  `gorm:"column:criado_em;index" json:"criado_em"`                           // 创建时间

	Organizacao *Organization `gorm:"foreignKey:OrganizacaoID" json:"organizacao,omitempty"` // 所属组织
}

// TableName 指定表名
func (Campaign) TableName() string {
	return "campanhas"
}
