package service

import (
	"strings"

	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"
)

// ItemService 商品目录服务
type ItemService struct {
	repo repository.ItemRepository
}

// NewItemService 创建商品目录服务
func NewItemService(repo repository.ItemRepository) *ItemService {
	return &ItemService{repo: repo}
}

// ItemInput 创建/更新商品输入
type ItemInput struct {
	Nome  string
	Ativo *bool
}

// List 商品列表
func (s *ItemService) List(filter repository.ItemListFilter) ([]models.Item, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	items, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, newFetchError("items", err)
	}
	return items, total, nil
}

// CountActive 启用商品数量
func (s *ItemService) CountActive() (int64, error) {
	count, err := s.repo.CountActive()
	if err != nil {
		return 0, newFetchError("items", err)
	}
	return count, nil
}

// Create 创建商品，默认启用
func (s *ItemService) Create(input ItemInput) (*models.Item, error) {
	name := strings.TrimSpace(input.Nome)
	if name == "" {
		return nil, ErrItemNameRequired
	}
	item := models.Item{Nome: name, Ativo: true}
	if input.Ativo != nil {
		item.Ativo = *input.Ativo
	}
	if err := s.repo.Create(&item); err != nil {
		return nil, newWriteError("item", err)
	}
	// 零值 false 不会被 Create 写入
	if !item.Ativo {
		if err := s.repo.Update(&item); err != nil {
			return nil, newWriteError("item", err)
		}
	}
	return &item, nil
}

// Update 更新商品
func (s *ItemService) Update(id uint, input ItemInput) (*models.Item, error) {
	name := strings.TrimSpace(input.Nome)
	if name == "" {
		return nil, ErrItemNameRequired
	}
	item, err := s.get(id)
	if err != nil {
		return nil, err
	}
	item.Nome = name
	if input.Ativo != nil {
		item.Ativo = *input.Ativo
	}
	if err := s.repo.Update(item); err != nil {
		return nil, newWriteError("item", err)
	}
	return item, nil
}

// Toggle 切换启用状态
func (s *ItemService) Toggle(id uint) (*models.Item, error) {
	item, err := s.get(id)
	if err != nil {
		return nil, err
	}
	item.Ativo = !item.Ativo
	if err := s.repo.Update(item); err != nil {
		return nil, newWriteError("item", err)
	}
	return item, nil
}

// Delete 删除商品，被订单或活动引用时返回 ErrItemInUse
func (s *ItemService) Delete(id uint) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	refs, err := s.repo.CountReferences(id)
	if err != nil {
		return newFetchError("items", err)
	}
	if refs > 0 {
		return ErrItemInUse
	}
	if err := s.repo.Delete(id); err != nil {
		if isForeignKeyViolation(err) {
			return ErrItemInUse
		}
		return newWriteError("item", err)
	}
	return nil
}

func (s *ItemService) get(id uint) (*models.Item, error) {
	item, err := s.repo.GetByID(id)
	if err != nil {
		return nil, newFetchError("items", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, "23503")
}
