package service

import (
	"time"

	"github.com/desbrava-pizza/internal/models"

	"github.com/shopspring/decimal"
)

// OrganizationRef 订单关联的组织（可能不存在）
type OrganizationRef struct {
	ID   uint   `json:"id"`
	Nome string `json:"nome"`
}

// CampaignRef 订单关联的活动（可能不存在）
type CampaignRef struct {
	ID            uint             `json:"id"`
	Nome          string           `json:"nome"`
	OrganizacaoID uint             `json:"organizacao_id"`
	Organizacao   *OrganizationRef `json:"organizacoes"`
}

// DeliveryLine 订单项与商品名
type DeliveryLine struct {
	ID       uint   `json:"id"`
	ItemID   uint   `json:"item_id"`
	ItemName string `json:"item_nome"`
	Ordered  int    `json:"qtd_pedida"`
}

// DeliveryOrder 提货视角下的订单，关联关系统一为“零或一个”
type DeliveryOrder struct {
	ID             uint           `json:"id"`
	CampanhaID     uint           `json:"campanha_id"`
	CodigoPedido   string         `json:"codigo_pedido"`
	NomeComprador  string         `json:"nome_comprador"`
	Whatsapp       string         `json:"whatsapp"`
	NomeReferencia string         `json:"nome_referencia"`
	ValorTotal     models.Money   `json:"valor_total"`
	Status         string         `json:"status"`
	CriadoEm       time.Time      `json:"criado_em"`
	Campanha       *CampaignRef   `json:"campanhas"`
	Lines          []DeliveryLine `json:"-"`
}

// CampaignName 活动名称，没有活动时为空
func (o DeliveryOrder) CampaignName() string {
	if o.Campanha == nil {
		return ""
	}
	return o.Campanha.Nome
}

// OrganizationName 组织名称，没有时为空
func (o DeliveryOrder) OrganizationName() string {
	if o.Campanha == nil || o.Campanha.Organizacao == nil {
		return ""
	}
	return o.Campanha.Organizacao.Nome
}

// FulfillmentLine 订单项的提货进度
type FulfillmentLine struct {
	DeliveryLine
	Retrieved int `json:"qtd_retirada"`
	Pending   int `json:"qtd_pendente"`
}

// FulfillmentOrder 订单的提货进度，合计值由订单项推导，不单独存储
type FulfillmentOrder struct {
	DeliveryOrder
	Itens          []FulfillmentLine `json:"itens"`
	OrderedTotal   int               `json:"qtd_pedida"`
	RetrievedTotal int               `json:"qtd_retirada"`
	PendingTotal   int               `json:"qtd_pendente"`
}

// Line 按订单项 ID 查找
func (o FulfillmentOrder) Line(lineID uint) (FulfillmentLine, bool) {
	for _, line := range o.Itens {
		if line.ID == lineID {
			return line, true
		}
	}
	return FulfillmentLine{}, false
}

// DeliveryKPIs 提货列表汇总
type DeliveryKPIs struct {
	Pedidos     int          `json:"pedidos"`
	QtdPedida   int          `json:"qtd_pedida"`
	QtdRetirada int          `json:"qtd_retirada"`
	QtdPendente int          `json:"qtd_pendente"`
	ValorTotal  models.Money `json:"valor_total"`
}

// PendingQuantity 待提数量 = max(订购 - 已提, 0)
func PendingQuantity(ordered, retrieved int) int {
	if pending := ordered - retrieved; pending > 0 {
		return pending
	}
	return 0
}

// CalculateFulfillment 合并订单与已提数量，onlyPending 为真时只保留仍有待提数量的订单
func CalculateFulfillment(orders []DeliveryOrder, retrieved map[uint]int, onlyPending bool) []FulfillmentOrder {
	all := ComputeFulfillment(orders, retrieved)
	if onlyPending {
		return FilterPending(all)
	}
	return all
}

// ComputeFulfillment 为每个订单计算订单项与合计的提货进度
func ComputeFulfillment(orders []DeliveryOrder, retrieved map[uint]int) []FulfillmentOrder {
	result := make([]FulfillmentOrder, 0, len(orders))
	for _, order := range orders {
		result = append(result, computeOrder(order, retrieved))
	}
	return result
}

func computeOrder(order DeliveryOrder, retrieved map[uint]int) FulfillmentOrder {
	out := FulfillmentOrder{
		DeliveryOrder: order,
		Itens:         make([]FulfillmentLine, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		got := retrieved[line.ID]
		pending := PendingQuantity(line.Ordered, got)
		out.Itens = append(out.Itens, FulfillmentLine{
			DeliveryLine: line,
			Retrieved:    got,
			Pending:      pending,
		})
		out.OrderedTotal += line.Ordered
		out.RetrievedTotal += got
		out.PendingTotal += pending
	}
	return out
}

// FilterPending 过滤出仍有待提数量的订单，不重新计算
func FilterPending(orders []FulfillmentOrder) []FulfillmentOrder {
	result := make([]FulfillmentOrder, 0, len(orders))
	for _, order := range orders {
		if order.PendingTotal > 0 {
			result = append(result, order)
		}
	}
	return result
}

// SummarizeDelivery 汇总列表 KPI
func SummarizeDelivery(orders []FulfillmentOrder) DeliveryKPIs {
	total := decimal.Zero
	kpis := DeliveryKPIs{Pedidos: len(orders)}
	for _, order := range orders {
		kpis.QtdPedida += order.OrderedTotal
		kpis.QtdRetirada += order.RetrievedTotal
		kpis.QtdPendente += order.PendingTotal
		total = total.Add(order.ValorTotal.Decimal)
	}
	kpis.ValorTotal = models.NewMoneyFromDecimal(total)
	return kpis
}

// RetrieveAllRemaining 把每个订单项的本次提货数量设为当前待提数量，不会自动提交
func RetrieveAllRemaining(order FulfillmentOrder) map[uint]int {
	quantities := make(map[uint]int, len(order.Itens))
	for _, line := range order.Itens {
		quantities[line.ID] = line.Pending
	}
	return quantities
}
