package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	productCacheKey = "gerai:products:all"
	productCacheTTL = 5 * time.Minute
)

type ProductService struct {
	db           *gorm.DB
	redis        *redis.Client
	validator    *infrastructures.Validator
	auditService *AuditService
}

func NewProductService(db *gorm.DB, redis *redis.Client, validator *infrastructures.Validator, auditService *AuditService) *ProductService {
	return &ProductService{
		db:           db,
		redis:        redis,
		validator:    validator,
		auditService: auditService,
	}
}

func (s *ProductService) CreateProduct(req *models.ProductCreateRequest, changedBy *uuid.UUID) (*models.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var existing models.Product
	err := s.db.Where("sku = ?", req.SKU).First(&existing).Error
	if err == nil {
		return nil, errors.NewBadRequestError("Product SKU already exists")
	}

	product := &models.Product{
		SKU:            req.SKU,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		PriceRetail:    req.PriceRetail,
		PriceWholesale: req.PriceWholesale,
		Stock:          req.Stock,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create product")
	}

	s.invalidateCache()
	s.auditService.LogAudit("products", product.ID, models.AuditActionCreate, nil, product, changedBy)

	return product, nil
}

func (s *ProductService) GetProduct(productId string) (*models.Product, error) {
	productUUID, err := uuid.Parse(productId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid product ID format")
	}

	var product models.Product
	err = s.db.Where("id = ?", productUUID).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Product not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get product")
	}

	return &product, nil
}

// GetProducts lists the catalog. The unfiltered listing goes through a short
// Redis cache because the storefront grid hits it on every page view.
func (s *ProductService) GetProducts(pagination *models.PaginationRequest, category *string, role models.UserRole) (*models.Pagination[[]models.ProductView], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 20
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	products, err := s.loadCatalog()
	if err != nil {
		return nil, err
	}

	if category != nil && *category != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.Category == *category {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	return paginateViews(products, pagination, role), nil
}

// SearchProducts filters the catalog by substring or consonant-skeleton
// match on name and SKU.
func (s *ProductService) SearchProducts(query string, pagination *models.PaginationRequest, role models.UserRole) (*models.Pagination[[]models.ProductView], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 20
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	products, err := s.loadCatalog()
	if err != nil {
		return nil, err
	}

	return paginateViews(filterProducts(products, query), pagination, role), nil
}

func (s *ProductService) UpdateProduct(productId string, req *models.ProductUpdateRequest, changedBy *uuid.UUID) (*models.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(productId)
	if err != nil {
		return nil, err
	}

	old := *product

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.PriceRetail != nil {
		product.PriceRetail = *req.PriceRetail
	}
	if req.PriceWholesale != nil {
		product.PriceWholesale = *req.PriceWholesale
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update product")
	}

	s.invalidateCache()
	s.auditService.LogAudit("products", product.ID, models.AuditActionUpdate, old, product, changedBy)

	return product, nil
}

func (s *ProductService) DeleteProduct(productId string, changedBy *uuid.UUID) error {
	product, err := s.GetProduct(productId)
	if err != nil {
		return err
	}

	if err := s.db.Delete(product).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete product")
	}

	s.invalidateCache()
	s.auditService.LogAudit("products", product.ID, models.AuditActionDelete, product, nil, changedBy)

	return nil
}

func (s *ProductService) loadCatalog() ([]models.Product, error) {
	ctx := context.Background()

	cached, err := s.redis.Get(ctx, productCacheKey).Result()
	if err == nil {
		var products []models.Product
		if json.Unmarshal([]byte(cached), &products) == nil {
			return products, nil
		}
	}

	var products []models.Product
	if err := s.db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get products")
	}

	if data, err := json.Marshal(products); err == nil {
		s.redis.Set(ctx, productCacheKey, data, productCacheTTL)
	}

	return products, nil
}

func (s *ProductService) invalidateCache() {
	if err := s.redis.Del(context.Background(), productCacheKey).Err(); err != nil {
		infrastructures.GetLogger().Warnf("failed to invalidate product cache: %v", err)
	}
}

func paginateViews(products []models.Product, pagination *models.PaginationRequest, role models.UserRole) *models.Pagination[[]models.ProductView] {
	totalItems := len(products)
	totalPages := (totalItems + pagination.Limit - 1) / pagination.Limit

	start := (pagination.Page - 1) * pagination.Limit
	if start > totalItems {
		start = totalItems
	}
	end := start + pagination.Limit
	if end > totalItems {
		end = totalItems
	}

	views := make([]models.ProductView, 0, end-start)
	for _, p := range products[start:end] {
		views = append(views, models.NewProductView(p, role))
	}

	return &models.Pagination[[]models.ProductView]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: totalItems,
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      views,
	}
}
