package services

import (
	"testing"

	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func productFixture(stock int, retail, wholesale string) models.Product {
	return models.Product{
		ID:             uuid.New(),
		SKU:            "SKU-" + uuid.NewString()[:8],
		Name:           "Fixture",
		Stock:          stock,
		PriceRetail:    decimal.RequireFromString(retail),
		PriceWholesale: decimal.RequireFromString(wholesale),
	}
}

func TestReconcileDropsUnknownProducts(t *testing.T) {
	known := productFixture(10, "15000", "12000")
	catalog := map[uuid.UUID]models.Product{known.ID: known}

	view := reconcileLines([]models.CartLineInput{
		{ProductID: known.ID.String(), Quantity: 2},
		{ProductID: uuid.NewString(), Quantity: 3},
		{ProductID: "not-a-uuid", Quantity: 1},
		{ProductID: "", Quantity: 4},
	}, catalog, models.UserRoleBasic)

	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	if view.Lines[0].ProductID != known.ID {
		t.Fatalf("expected surviving line %s, got %s", known.ID, view.Lines[0].ProductID)
	}
}

func TestReconcileClampsQuantityToStock(t *testing.T) {
	p := productFixture(3, "10000", "8000")
	catalog := map[uuid.UUID]models.Product{p.ID: p}

	view := reconcileLines([]models.CartLineInput{
		{ProductID: p.ID.String(), Quantity: 99},
	}, catalog, models.UserRoleBasic)

	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	line := view.Lines[0]
	if line.Quantity != 3 {
		t.Fatalf("expected quantity clamped to 3, got %d", line.Quantity)
	}
	if !line.QtyAdjusted {
		t.Fatal("expected qty_adjusted to be set")
	}
	want := decimal.RequireFromString("30000")
	if !line.Subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, line.Subtotal)
	}
}

func TestReconcileDropsOutOfStockLines(t *testing.T) {
	p := productFixture(0, "10000", "8000")
	catalog := map[uuid.UUID]models.Product{p.ID: p}

	view := reconcileLines([]models.CartLineInput{
		{ProductID: p.ID.String(), Quantity: 1},
	}, catalog, models.UserRoleBasic)

	if len(view.Lines) != 0 {
		t.Fatalf("expected no lines for out-of-stock product, got %d", len(view.Lines))
	}
	if !view.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", view.Total)
	}
}

func TestReconcileMergesDuplicateLines(t *testing.T) {
	p := productFixture(10, "10000", "8000")
	catalog := map[uuid.UUID]models.Product{p.ID: p}

	view := reconcileLines([]models.CartLineInput{
		{ProductID: p.ID.String(), Quantity: 2},
		{ProductID: p.ID.String(), Quantity: 3},
	}, catalog, models.UserRoleBasic)

	if len(view.Lines) != 1 {
		t.Fatalf("expected merged single line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", view.Lines[0].Quantity)
	}
}

func TestReconcilePricesByRole(t *testing.T) {
	p := productFixture(10, "15000", "12000")
	catalog := map[uuid.UUID]models.Product{p.ID: p}
	items := []models.CartLineInput{{ProductID: p.ID.String(), Quantity: 2}}

	tests := []struct {
		role models.UserRole
		want string
	}{
		{models.UserRoleBasic, "15000"},
		{models.UserRoleWholesaler, "12000"},
		{models.UserRoleShopOwner, "12000"},
		{models.UserRoleDeveloper, "12000"},
	}

	for _, tt := range tests {
		view := reconcileLines(items, catalog, tt.role)
		want := decimal.RequireFromString(tt.want)
		if !view.Lines[0].UnitPrice.Equal(want) {
			t.Errorf("role %s: expected unit price %s, got %s", tt.role, want, view.Lines[0].UnitPrice)
		}
		wantTotal := want.Mul(decimal.NewFromInt(2))
		if !view.Total.Equal(wantTotal) {
			t.Errorf("role %s: expected total %s, got %s", tt.role, wantTotal, view.Total)
		}
	}
}

func TestReconcileRaisesZeroQuantityToOne(t *testing.T) {
	p := productFixture(10, "10000", "8000")
	catalog := map[uuid.UUID]models.Product{p.ID: p}

	view := reconcileLines([]models.CartLineInput{
		{ProductID: p.ID.String(), Quantity: 0},
	}, catalog, models.UserRoleBasic)

	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity raised to 1, got %d", view.Lines[0].Quantity)
	}
	if !view.Lines[0].QtyAdjusted {
		t.Fatal("expected qty_adjusted to be set")
	}
}
