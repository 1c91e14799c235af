package models

import "time"

// Club 俱乐部收款信息（clubes），系统只使用最新一行
type Club struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                      // 主键
	Nome         string    `gorm:"type:varchar(160);not null" json:"nome"`                    // 俱乐部名称
	TipoChavePix string    `gorm:"type:varchar(20);not null;default:'email'" json:"tipo_chave_pix"` // PIX 键类型
	ChavePix     string    `gorm:"type:varchar(160);not null" json:"chave_pix"`               // PIX 键
	BancoPix     *string   `gorm:"type:varchar(120)" json:"banco_pix"`                        // 收款银行（可空）
	Ativo        bool      `gorm:"not null;default:true" json:"ativo"`                        // 是否启用
	CreatedAt    time.Time `gorm:"column:criado_em;index" json:"criado_em"`                   // 创建时间
}

// TableName 指定表名
func (Club) TableName() string {
	return "clubes"
}
