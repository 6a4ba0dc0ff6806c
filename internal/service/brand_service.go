package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"partshop/internal/domain"
	"partshop/internal/logging"
	"partshop/internal/repository"
)

// BrandInput поля бренда, slug вычисляется из имени
type BrandInput struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image"`
}

// BrandService управляет брендами каталога
type BrandService struct {
	repo   repository.BrandRepository
	logger *zap.Logger
}

func NewBrandService(repo repository.BrandRepository, logger *zap.Logger) *BrandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrandService{repo: repo, logger: logger.Named("brands")}
}

func (s *BrandService) Create(ctx context.Context, in BrandInput) (*domain.Brand, error) {
	name, err := s.checkName(ctx, in, "")
	if err != nil {
		return nil, err
	}
	b := domain.Brand{Name: name, Slug: domain.Slugify(name), Image: strings.TrimSpace(in.Image)}
	if err := s.repo.Create(ctx, &b); err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.logger).Info("brand created", zap.String("brand_id", b.ID), zap.String("slug", b.Slug))
	return &b, nil
}

func (s *BrandService) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("brand id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *BrandService) List(ctx context.Context) ([]domain.Brand, error) {
	return s.repo.List(ctx)
}

// Update пересчитывает slug; пустая картинка оставляет прежнюю
func (s *BrandService) Update(ctx context.Context, id string, in BrandInput) (*domain.Brand, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("brand id is required")
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := s.checkName(ctx, in, id)
	if err != nil {
		return nil, err
	}
	b.Name = name
	b.Slug = domain.Slugify(name)
	if img := strings.TrimSpace(in.Image); img != "" {
		b.Image = img
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BrandService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("brand id is required")
	}
	return s.repo.Delete(ctx, id)
}

// checkName validates the input and rejects a case-insensitive clash with any other brand.
func (s *BrandService) checkName(ctx context.Context, in BrandInput, selfID string) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", invalid("brand name is required")
	}
	existing, err := s.repo.List(ctx)
	if err != nil {
		return "", err
	}
	for _, b := range existing {
		if b.ID != selfID && domain.SameName(b.Name, name) {
			return "", fmt.Errorf("%w: brand %q", ErrConflict, b.Name)
		}
	}
	return name, nil
}
