package services

import (
	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewCartService(db *gorm.DB, validator *infrastructures.Validator) *CartService {
	return &CartService{
		db:        db,
		validator: validator,
	}
}

// GetCart returns the user's server-side cart reconciled against the current
// catalog, so stale lines never reach checkout.
func (s *CartService) GetCart(user *models.User) (*models.CartView, error) {
	var items []models.CartItem
	err := s.db.Where("user_id = ?", user.ID).Order("created_at ASC").Find(&items).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get cart")
	}

	inputs := make([]models.CartLineInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, models.CartLineInput{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		})
	}

	view, err := s.reconcile(inputs, user.Role)
	if err != nil {
		return nil, err
	}

	return view, nil
}

// PutItem upserts one cart line. Quantity zero or below removes the line.
func (s *CartService) PutItem(user *models.User, req *models.CartPutItemRequest) (*models.CartView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	productUUID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid product ID format")
	}

	if req.Quantity <= 0 {
		err = s.db.Where("user_id = ? AND product_id = ?", user.ID, productUUID).
			Delete(&models.CartItem{}).Error
		if err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to remove cart item")
		}
		return s.GetCart(user)
	}

	var product models.Product
	err = s.db.Where("id = ?", productUUID).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Product not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get product")
	}

	item := &models.CartItem{
		UserID:    user.ID,
		ProductID: productUUID,
		Quantity:  req.Quantity,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to save cart item")
	}

	return s.GetCart(user)
}

// Reconcile merges a locally persisted cart with fresh product data and
// replaces the server cart with the result (last write wins).
func (s *CartService) Reconcile(user *models.User, req *models.CartReconcileRequest) (*models.CartView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	view, err := s.reconcile(req.Items, user.Role)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for _, line := range view.Lines {
			item := &models.CartItem{
				UserID:    user.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to save reconciled cart")
	}

	return view, nil
}

func (s *CartService) ClearCart(user *models.User) error {
	err := s.db.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to clear cart")
	}
	return nil
}

func (s *CartService) reconcile(items []models.CartLineInput, role models.UserRole) (*models.CartView, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if id, err := uuid.Parse(item.ProductID); err == nil {
			ids = append(ids, id)
		}
	}

	productsByID := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) > 0 {
		var products []models.Product
		if err := s.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to load products for cart")
		}
		for _, p := range products {
			productsByID[p.ID] = p
		}
	}

	view := reconcileLines(items, productsByID, role)
	return &view, nil
}
