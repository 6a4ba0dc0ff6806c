package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"partshop/internal/domain"
	"partshop/internal/logging"
	"partshop/internal/repository"
)

// Actor тот, кто выполняет операцию над каталогом
type Actor struct {
	ID   string
	Role domain.Role
}

func (a Actor) isAdmin() bool { return a.Role == domain.RoleAdmin }

// owner value stored in createdBy for products this actor creates
func (a Actor) owner() string {
	if a.isAdmin() {
		return domain.CreatedByAdmin
	}
	return a.ID
}

// ProductInput редактируемые поля товара
type ProductInput struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	Price           float64  `json:"price" validate:"gte=0"`
	Quantity        int64    `json:"quantity" validate:"gte=0"`
	Category        string   `json:"category"`
	Images          []string `json:"images" validate:"dive,required"`
	AvailableColors []string `json:"availableColor"`
	AvailableSizes  []string `json:"availableSizes"`
	EmbedLink       string   `json:"embedLink"`
}

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo   repository.ProductRepository
	tx     repository.TxManager
	embed  *bluemonday.Policy
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, tx repository.TxManager, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{repo: repo, tx: tx, embed: embedPolicy(), logger: logger.Named("products")}
}

// embedPolicy allows only the iframe snippet used by the 3D viewer.
func embedPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("iframe")
	p.AllowAttrs("src").Matching(regexp.MustCompile(`^https://`)).OnElements("iframe")
	p.AllowAttrs("title", "frameborder", "allow", "allowfullscreen",
		"mozallowfullscreen", "webkitallowfullscreen", "xr-spatial-tracking",
		"execution-while-out-of-viewport", "execution-while-not-rendered", "web-share").OnElements("iframe")
	p.AllowAttrs("width", "height").Matching(bluemonday.NumberOrPercent).OnElements("iframe")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("https")
	return p
}

func (s *ProductService) sanitizeEmbed(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(s.embed.Sanitize(raw))
}

func (s *ProductService) apply(p *domain.Product, in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.Category = strings.TrimSpace(in.Category)
	p.AvailableColors = in.AvailableColors
	p.AvailableSizes = in.AvailableSizes
	p.EmbedLink = s.sanitizeEmbed(in.EmbedLink)
}

func (s *ProductService) Create(ctx context.Context, actor Actor, in ProductInput) (*domain.Product, error) {
	if actor.ID == "" && !actor.isAdmin() {
		return nil, ErrUnauthenticated
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p := domain.Product{CreatedBy: actor.owner()}
	s.apply(&p, in)
	for _, u := range in.Images {
		p.Images = append(p.Images, domain.Image{URL: u})
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.logger).Info("product created",
		zap.String("product_id", p.ID), zap.String("created_by", p.CreatedBy))
	return &p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("product id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, invalid("minPrice is greater than maxPrice")
	}
	return s.repo.List(ctx, f)
}

// Update заменяет редактируемые поля и весь набор картинок в одной транзакции
func (s *ProductService) Update(ctx context.Context, actor Actor, id string, in ProductInput) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("product id is required")
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	var updated *domain.Product
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := authorizeOwner(actor, p); err != nil {
			return err
		}
		s.apply(p, in)
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		images, err := s.repo.ReplaceImages(ctx, p.ID, in.Images)
		if err != nil {
			return err
		}
		p.Images = images
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete удаляет картинки, затем сам товар
func (s *ProductService) Delete(ctx context.Context, actor Actor, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("product id is required")
	}
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := authorizeOwner(actor, p); err != nil {
			return err
		}
		if err := s.repo.DeleteImages(ctx, id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		logging.FromContext(ctx, s.logger).Info("product deleted", zap.String("product_id", id))
		return nil
	})
}

// admins manage every product, sellers only their own
func authorizeOwner(actor Actor, p *domain.Product) error {
	if actor.isAdmin() {
		return nil
	}
	if actor.ID == "" || p.CreatedBy != actor.ID {
		return ErrForbidden
	}
	return nil
}
