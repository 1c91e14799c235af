package public

import (
	"time"

	"github.com/desbrava-pizza/internal/cache"
	handlershared "github.com/desbrava-pizza/internal/http/handlers/shared"
	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	publicMenuCacheKey = "public:menu"
	publicMenuCacheTTL = 30 * time.Second
)

// CreateOrderRequest 公开下单请求，sabores 以商品 ID 为键
type CreateOrderRequest struct {
	NomeComprador  string       `json:"nome_comprador" binding:"required,max=120"`
	Whatsapp       string       `json:"whatsapp" binding:"required,max=32"`
	NomeReferencia string       `json:"nome_referencia" binding:"required,max=120"`
	Quantidade     int          `json:"quantidade" binding:"required,gt=0,lte=500"`
	Sabores        map[uint]int `json:"sabores" binding:"required"`
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok", "redis": cache.Enabled()})
}

// GetMenu 当前活动与可选口味
func (h *Handler) GetMenu(c *gin.Context) {
	var cached service.Menu
	if hit, err := cache.GetJSON(c.Request.Context(), publicMenuCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}
	menu, err := h.PublicOrderService.Menu()
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), publicMenuCacheKey, menu, publicMenuCacheTTL); err != nil {
		handlershared.RequestLog(c).Debugw("public_menu_cache_set_failed", "error", err)
	}
	response.Success(c, menu)
}

// CreateOrder 提交订单，返回订单号与 PIX 付款信息
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	result, err := h.PublicOrderService.Create(c.Request.Context(), service.PublicOrderInput{
		NomeComprador:  req.NomeComprador,
		Whatsapp:       req.Whatsapp,
		NomeReferencia: req.NomeReferencia,
		Quantidade:     req.Quantidade,
		Flavors:        req.Sabores,
	})
	if err != nil {
		handlershared.RespondServiceError(c, err)
		return
	}
	response.Success(c, result)
}
