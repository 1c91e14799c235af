package constants

// 订单状态常量
const (
	OrderStatusAwaitingPayment    = "aguardando_pagamento"
	OrderStatusPaid               = "pago"
	OrderStatusConfirmed          = "confirmado"
	OrderStatusApproved           = "aprovado"
	OrderStatusCompleted          = "concluido"
	OrderStatusCanceled           = "cancelado"
	OrderStatusDeleted            = "excluido"
	OrderStatusRetrieved          = "retirado"
	OrderStatusPartiallyRetrieved = "retirado_parcial"
)

// DeliveryExcludedStatuses 提货列表始终排除的订单状态
var DeliveryExcludedStatuses = []string{OrderStatusDeleted, OrderStatusCanceled}

// DefaultPaidStatuses 报表“仅已付款”过滤使用的状态
var DefaultPaidStatuses = []string{
	OrderStatusPaid,
	OrderStatusConfirmed,
	OrderStatusApproved,
	OrderStatusCompleted,
}

// 后台用户角色（usuarios.perfil）
const (
	ProfileAdmin     = "admin"
	ProfileDelivery  = "entregador"
	ProfileFinancial = "financeiro"
)

// PIX 键类型
const (
	PixKeyEmail  = "email"
	PixKeyCPF    = "cpf"
	PixKeyCNPJ   = "cnpj"
	PixKeyPhone  = "telefone"
	PixKeyRandom = "aleatoria"
)

// 报表与导出占位文本
const (
	NoReferrerPlaceholder = "—"
	NoCampaignID          = "—"
	NoCampaignName        = "(Sem campanha)"
)

// 导出格式
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// 队列与任务名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderStatusRecalc     = "order:status_recalc"
	TaskReportCacheInvalidate = "report:cache_invalidate"
)
