package service

import (
	"strings"

	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/constants"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/repository"
)

const defaultClubName = "Amigos do Paraíso"

var validPixKeyTypes = map[string]struct{}{
	constants.PixKeyEmail:  {},
	constants.PixKeyCPF:    {},
	constants.PixKeyCNPJ:   {},
	constants.PixKeyPhone:  {},
	constants.PixKeyRandom: {},
}

// ClubService 俱乐部收款信息服务
type ClubService struct {
	repo           repository.ClubRepository
	defaultName    string
	defaultKeyType string
	defaultKey     string
}

// NewClubService 创建俱乐部服务
func NewClubService(repo repository.ClubRepository, cfg config.ClubConfig) *ClubService {
	name := strings.TrimSpace(cfg.DefaultName)
	if name == "" {
		name = defaultClubName
	}
	keyType := strings.ToLower(strings.TrimSpace(cfg.DefaultPixKeyType))
	if _, ok := validPixKeyTypes[keyType]; !ok {
		keyType = constants.PixKeyEmail
	}
	return &ClubService{
		repo:           repo,
		defaultName:    name,
		defaultKeyType: keyType,
		defaultKey:     strings.TrimSpace(cfg.DefaultPixKey),
	}
}

// ClubInput 保存俱乐部输入
type ClubInput struct {
	Nome         string
	TipoChavePix string
	ChavePix     string
	BancoPix     string
	Ativo        *bool
}

// Get 返回最新的俱乐部记录，没有时返回默认值（未保存）
func (s *ClubService) Get() (*models.Club, error) {
	club, err := s.repo.GetLatest()
	if err != nil {
		return nil, newFetchError("clubs", err)
	}
	if club != nil {
		return club, nil
	}
	return &models.Club{
		Nome:         s.defaultName,
		TipoChavePix: s.defaultKeyType,
		Ativo:        true,
	}, nil
}

// EnsureDefault 尚无俱乐部记录且配置了默认 Pix 键时写入默认记录
func (s *ClubService) EnsureDefault() (bool, error) {
	if s.defaultKey == "" {
		return false, nil
	}
	current, err := s.repo.GetLatest()
	if err != nil {
		return false, newFetchError("clubs", err)
	}
	if current != nil {
		return false, nil
	}
	if _, err := s.Save(ClubInput{
		Nome:         s.defaultName,
		TipoChavePix: s.defaultKeyType,
		ChavePix:     s.defaultKey,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// Save 校验并保存，不存在时创建
func (s *ClubService) Save(input ClubInput) (*models.Club, error) {
	name := strings.TrimSpace(input.Nome)
	key := strings.TrimSpace(input.ChavePix)
	if name == "" || key == "" {
		return nil, ErrClubInvalid
	}
	keyType := strings.ToLower(strings.TrimSpace(input.TipoChavePix))
	if keyType == "" {
		keyType = constants.PixKeyEmail
	}
	if _, ok := validPixKeyTypes[keyType]; !ok {
		return nil, ErrClubInvalid
	}
	var bank *string
	if b := strings.TrimSpace(input.BancoPix); b != "" {
		bank = &b
	}

	current, err := s.repo.GetLatest()
	if err != nil {
		return nil, newFetchError("clubs", err)
	}
	if current == nil {
		club := models.Club{
			Nome:         name,
			TipoChavePix: keyType,
			ChavePix:     key,
			BancoPix:     bank,
			Ativo:        true,
		}
		if err := s.repo.Create(&club); err != nil {
			return nil, newWriteError("club", err)
		}
		if input.Ativo != nil && !*input.Ativo {
			club.Ativo = false
			if err := s.repo.Update(&club); err != nil {
				return nil, newWriteError("club", err)
			}
		}
		return &club, nil
	}

	current.Nome = name
	current.TipoChavePix = keyType
	current.ChavePix = key
	current.BancoPix = bank
	if input.Ativo != nil {
		current.Ativo = *input.Ativo
	}
	if err := s.repo.Update(current); err != nil {
		return nil, newWriteError("club", err)
	}
	return current, nil
}
