package admin

import (
	handlershared "github.com/desbrava-pizza/internal/http/handlers/shared"
	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/repository"
	"github.com/desbrava-pizza/internal/service"

	"github.com/gin-gonic/gin"
)

// ItemRequest 创建/更新商品请求
type ItemRequest struct {
	Nome  string `json:"nome" binding:"required,max=120"`
	Ativo *bool  `json:"ativo"`
}

// GetItems 商品目录（分页，可按名称搜索）
func (h *Handler) GetItems(c *gin.Context) {
	page, pageSize := handlershared.QueryPage(c)

	items, total, err := h.ItemService.List(repository.ItemListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		OnlyActive: handlershared.QueryBool(c, "somente_ativos", false),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetItemStats 启用商品数量
func (h *Handler) GetItemStats(c *gin.Context) {
	count, err := h.ItemService.CountActive()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"ativos": count})
}

// CreateItem 创建商品
func (h *Handler) CreateItem(c *gin.Context) {
	var req ItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.ItemService.Create(service.ItemInput{Nome: req.Nome, Ativo: req.Ativo})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// UpdateItem 更新商品
func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	item, err := h.ItemService.Update(id, service.ItemInput{Nome: req.Nome, Ativo: req.Ativo})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// ToggleItem 切换商品启用状态
func (h *Handler) ToggleItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.ItemService.Toggle(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// DeleteItem 删除商品，被订单或活动引用时拒绝
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ItemService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
