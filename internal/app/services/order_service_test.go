package services

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/gerailabs/gerai-core/internal/infrastructures"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNormalizeCheckoutItemsSortsProductIDs(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	lineQty, productIDs, err := normalizeCheckoutItems([]models.CartLineInput{
		{ProductID: c.String(), Quantity: 1},
		{ProductID: a.String(), Quantity: 2},
		{ProductID: b.String(), Quantity: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(productIDs) != 3 {
		t.Fatalf("expected 3 product ids, got %d", len(productIDs))
	}
	for i := 1; i < len(productIDs); i++ {
		if bytes.Compare(productIDs[i-1][:], productIDs[i][:]) >= 0 {
			t.Fatalf("product ids not in ascending order: %s before %s", productIDs[i-1], productIDs[i])
		}
	}
	if lineQty[a] != 2 || lineQty[b] != 3 || lineQty[c] != 1 {
		t.Fatalf("quantities lost in normalization: %v", lineQty)
	}
}

func TestNormalizeCheckoutItemsMergesDuplicates(t *testing.T) {
	p := uuid.New()

	lineQty, productIDs, err := normalizeCheckoutItems([]models.CartLineInput{
		{ProductID: p.String(), Quantity: 2},
		{ProductID: p.String(), Quantity: 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(productIDs) != 1 {
		t.Fatalf("expected duplicate lines merged into 1 id, got %d", len(productIDs))
	}
	if lineQty[p] != 5 {
		t.Fatalf("expected merged quantity 5, got %d", lineQty[p])
	}
}

func TestNormalizeCheckoutItemsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		items []models.CartLineInput
	}{
		{"malformed product id", []models.CartLineInput{{ProductID: "not-a-uuid", Quantity: 1}}},
		{"empty product id", []models.CartLineInput{{ProductID: "", Quantity: 1}}},
		{"zero quantity", []models.CartLineInput{{ProductID: uuid.NewString(), Quantity: 0}}},
		{"negative quantity", []models.CartLineInput{{ProductID: uuid.NewString(), Quantity: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := normalizeCheckoutItems(tt.items)
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T: %v", err, err)
			}
			if appErr.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", appErr.StatusCode)
			}
		})
	}
}

// A serialization abort while locking product rows is not a server fault:
// it surfaces as 503 TRANSIENT_FAILURE so the client retries.
func TestCheckoutSurfacesContentionAsTransient(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewOrderService(db, infrastructures.NewValidator(), NewAuditService(db))

	user := &models.User{ID: uuid.New(), Role: models.UserRoleBasic}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "products" WHERE id = .+ FOR UPDATE`).
		WillReturnError(&pgconn.PgError{Code: "40001"})
	mock.ExpectRollback()

	order, err := svc.Checkout(user, &models.CheckoutRequest{
		ShippingAddress: "Jl. Kenanga No. 7, Bandung",
		Items:           []models.CartLineInput{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	if order != nil {
		t.Fatalf("expected nil order, got %+v", order)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", appErr.StatusCode)
	}
	if appErr.Code != errors.CodeTransientFailure {
		t.Fatalf("expected code %s, got %s", errors.CodeTransientFailure, appErr.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction sequence mismatch: %v", err)
	}
}
