package repository

import (
	"errors"

	"github.com/desbrava-pizza/internal/models"

	"gorm.io/gorm"
)

// ClubRepository 俱乐部数据访问接口
type ClubRepository interface {
	GetLatest() (*models.Club, error)
	Create(club *models.Club) error
	Update(club *models.Club) error
}

// GormClubRepository GORM 实现
type GormClubRepository struct {
	db *gorm.DB
}

// NewClubRepository 创建俱乐部仓库
func NewClubRepository(db *gorm.DB) *GormClubRepository {
	return &GormClubRepository{db: db}
}

// GetLatest 获取最新创建的俱乐部记录
func (r *GormClubRepository) GetLatest() (*models.Club, error) {
	var club models.Club
	if err := r.db.Order("criado_em DESC").Order("id DESC").First(&club).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &club, nil
}

// Create 创建俱乐部
func (r *GormClubRepository) Create(club *models.Club) error {
	return r.db.Create(club).Error
}

// Update 更新俱乐部
func (r *GormClubRepository) Update(club *models.Club) error {
	return r.db.Model(&models.Club{}).
		Where("id = ?", club.ID).
		Updates(map[string]interface{}{
			"nome":           club.Nome,
			"tipo_chave_pix": club.TipoChavePix,
			"chave_pix":      club.ChavePix,
			"banco_pix":      club.BancoPix,
			"ativo":          club.Ativo,
		}).Error
}
