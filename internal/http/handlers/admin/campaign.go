package admin

import (
	handlershared "github.com/desbrava-pizza/internal/http/handlers/shared"
	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/service"

	"github.com/gin-gonic/gin"
)

// CampaignItemRequest 活动商品关联请求
type CampaignItemRequest struct {
	ItemID uint          `json:"item_id"`
	Ordem  *int          `json:"ordem"`
	Preco  *models.Money `json:"preco"`
	Ativo  *bool         `json:"ativo"`
}

// FlavorRequest 口味请求
type FlavorRequest struct {
	Nome  string        `json:"nome" binding:"required,max=120"`
	Preco *models.Money `json:"preco"`
	Ordem *int          `json:"ordem"`
	Ativo *bool         `json:"ativo"`
}

func (r CampaignItemRequest) toInput() service.CampaignItemInput {
	return service.CampaignItemInput{ItemID: r.ItemID, Ordem: r.Ordem, Preco: r.Preco, Ativo: r.Ativo}
}

func (r FlavorRequest) toInput() service.FlavorInput {
	return service.FlavorInput{Nome: r.Nome, Preco: r.Preco, Ordem: r.Ordem, Ativo: r.Ativo}
}

// GetCampaigns 活动列表与默认活动
func (h *Handler) GetCampaigns(c *gin.Context) {
	list, err := h.CampaignItemService.ListCampaigns()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, list)
}

// GetCampaignItems 活动已关联的商品（按排序）
func (h *Handler) GetCampaignItems(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	links, err := h.CampaignItemService.ListLinks(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, links)
}

// GetCampaignItemOptions 尚未关联到活动的商品
func (h *Handler) GetCampaignItemOptions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	items, err := h.CampaignItemService.Options(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// CreateCampaignItem 关联商品到活动
func (h *Handler) CreateCampaignItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CampaignItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	link, err := h.CampaignItemService.Create(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, link)
}

// UpdateCampaignItem 更新关联的排序、价格、启用状态
func (h *Handler) UpdateCampaignItem(c *gin.Context) {
	linkID, ok := handlershared.ParseIDParam(c, "link_id")
	if !ok {
		return
	}
	var req CampaignItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	link, err := h.CampaignItemService.Update(linkID, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, link)
}

// ToggleCampaignItem 切换关联启用状态
func (h *Handler) ToggleCampaignItem(c *gin.Context) {
	linkID, ok := handlershared.ParseIDParam(c, "link_id")
	if !ok {
		return
	}
	link, err := h.CampaignItemService.Toggle(linkID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, link)
}

// DeleteCampaignItem 删除关联
func (h *Handler) DeleteCampaignItem(c *gin.Context) {
	linkID, ok := handlershared.ParseIDParam(c, "link_id")
	if !ok {
		return
	}
	if err := h.CampaignItemService.Delete(linkID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateFlavor 新建口味（商品 + 关联）
func (h *Handler) CreateFlavor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req FlavorRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	link, err := h.FlavorService.Create(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, link)
}

// UpdateFlavor 编辑口味
func (h *Handler) UpdateFlavor(c *gin.Context) {
	linkID, ok := handlershared.ParseIDParam(c, "link_id")
	if !ok {
		return
	}
	var req FlavorRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	link, err := h.FlavorService.Update(linkID, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, link)
}

// DeactivateFlavor 停用口味
func (h *Handler) DeactivateFlavor(c *gin.Context) {
	linkID, ok := handlershared.ParseIDParam(c, "link_id")
	if !ok {
		return
	}
	if err := h.FlavorService.Deactivate(linkID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
