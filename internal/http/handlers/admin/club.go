package admin

import (
	handlershared "github.com/desbrava-pizza/internal/http/handlers/shared"
	"github.com/desbrava-pizza/internal/http/response"
	"github.com/desbrava-pizza/internal/service"

	"github.com/gin-gonic/gin"
)

// ClubRequest 俱乐部 PIX 信息
type ClubRequest struct {
	Nome         string `json:"nome" binding:"required,max=120"`
	TipoChavePix string `json:"tipo_chave_pix" binding:"max=16"`
	ChavePix     string `json:"chave_pix" binding:"required,max=140"`
	BancoPix     string `json:"banco_pix" binding:"max=120"`
	Ativo        *bool  `json:"ativo"`
}

// GetClub 当前俱乐部信息（无记录时返回默认值）
func (h *Handler) GetClub(c *gin.Context) {
	club, err := h.ClubService.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, club)
}

// UpdateClub 保存俱乐部信息
func (h *Handler) UpdateClub(c *gin.Context) {
	var req ClubRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	club, err := h.ClubService.Save(service.ClubInput{
		Nome:         req.Nome,
		TipoChavePix: req.TipoChavePix,
		ChavePix:     req.ChavePix,
		BancoPix:     req.BancoPix,
		Ativo:        req.Ativo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, club)
}
