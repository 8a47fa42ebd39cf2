package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/app/pkg"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
}

func NewOrderService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService) *OrderService {
	return &OrderService{
		db:           db,
		validator:    validator,
		auditService: auditService,
	}
}

// Checkout turns the submitted cart lines into an order. Stock is re-read
// under row locks inside the transaction, so two checkouts cannot both take
// the last unit.
func (s *OrderService) Checkout(user *models.User, req *models.CheckoutRequest) (*models.Order, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lineQty, productIDs, err := normalizeCheckoutItems(req.Items)
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(productIDs))

		for _, productID := range productIDs {
			var product models.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", productID).First(&product).Error
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return errors.NewNotFoundError("Product not found")
				}
				return err
			}

			qty := lineQty[productID]
			if product.Stock < qty {
				return errors.NewConflictError(fmt.Sprintf("Insufficient stock for %s", product.Name))
			}

			product.Stock -= qty
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			unit := product.PriceFor(user.Role)
			subtotal := unit.Mul(decimal.NewFromInt(int64(qty)))
			total = total.Add(subtotal)

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: unit,
				Quantity:  qty,
				Subtotal:  subtotal,
			})
		}

		created = &models.Order{
			UserID:          user.ID,
			Status:          models.OrderStatusPending,
			Total:           total,
			ShippingAddress: req.ShippingAddress,
			Items:           items,
		}
		if err := tx.Create(created).Error; err != nil {
			return err
		}

		// Checkout consumes the cart.
		return tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		if pkg.IsTransient(err) {
			return nil, errors.NewServiceUnavailableError(err, "Checkout aborted by a concurrent update, please retry")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create order")
	}

	return created, nil
}

// normalizeCheckoutItems validates the submitted lines, merges duplicate
// products, and returns the product ids sorted by their byte value. Locking
// rows in one fixed order keeps concurrent checkouts that share products
// from deadlocking each other.
func normalizeCheckoutItems(items []models.CartLineInput) (map[uuid.UUID]int, []uuid.UUID, error) {
	lineQty := make(map[uuid.UUID]int, len(items))
	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, nil, errors.NewBadRequestError("Invalid product ID format")
		}
		if item.Quantity < 1 {
			return nil, nil, errors.NewBadRequestError("Quantity must be at least 1")
		}
		if _, seen := lineQty[id]; !seen {
			productIDs = append(productIDs, id)
		}
		lineQty[id] += item.Quantity
	}

	sort.Slice(productIDs, func(i, j int) bool {
		return bytes.Compare(productIDs[i][:], productIDs[j][:]) < 0
	})

	return lineQty, productIDs, nil
}

func (s *OrderService) GetOrder(orderId string) (*models.Order, error) {
	orderUUID, err := uuid.Parse(orderId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid order ID format")
	}

	var order models.Order
	err = s.db.Preload("Items").Where("id = ?", orderUUID).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Order not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get order")
	}

	return &order, nil
}

func (s *OrderService) GetOrdersByUser(userId uuid.UUID, pagination *models.PaginationRequest) (*models.Pagination[[]models.Order], error) {
	return s.listOrders(pagination, &userId, nil)
}

func (s *OrderService) GetOrders(pagination *models.PaginationRequest, status *models.OrderStatus) (*models.Pagination[[]models.Order], error) {
	return s.listOrders(pagination, nil, status)
}

func (s *OrderService) listOrders(pagination *models.PaginationRequest, userId *uuid.UUID, status *models.OrderStatus) (*models.Pagination[[]models.Order], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Order{})
	query := s.db.Preload("Items").Order("created_at DESC").Limit(pagination.Limit).Offset(offset)
	if userId != nil {
		countQuery = countQuery.Where("user_id = ?", *userId)
		query = query.Where("user_id = ?", *userId)
	}
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
		query = query.Where("status = ?", *status)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count orders")
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get orders")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Order]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      orders,
	}, nil
}

func (s *OrderService) UpdateStatus(orderId string, req *models.OrderStatusUpdateRequest, changedBy *uuid.UUID) (*models.Order, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	order, err := s.GetOrder(orderId)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(req.Status) {
		return nil, errors.NewConflictError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, req.Status))
	}

	oldStatus := order.Status
	order.Status = req.Status

	if err := s.db.Save(order).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update order status")
	}

	s.auditService.LogAudit("orders", order.ID, models.AuditActionUpdate,
		map[string]any{"status": oldStatus}, map[string]any{"status": order.Status}, changedBy)

	return order, nil
}
