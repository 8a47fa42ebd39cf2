package services

import (
	"fmt"
	"net/http"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gerailabs/gerai-core/internal/app/errors"
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB opens a gorm handle over sqlmock with regexp query matching, so
// tests can pin down the exact statement sequence a transaction issues —
// including the FOR UPDATE row locks the single-use invariant depends on.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	return db, mock
}

const (
	lockUserQuery   = `SELECT .+ FROM "users" WHERE id = .+ FOR UPDATE`
	lockCouponQuery = `SELECT .+ FROM "coupons" WHERE code = .+ AND is_used = .+ FOR UPDATE`
)

func TestRedeemCommitsUpgradeAndConsumptionInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCouponRedemptionService(db)

	userID := uuid.New()
	couponID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).
			AddRow(userID.String(), "basic"))
	mock.ExpectQuery(lockCouponQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "role", "is_used"}).
			AddRow(couponID.String(), "WELCOME10", "wholesaler", false))
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "coupons" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.Redeem(userID.String(), "WELCOME10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NewRole != models.UserRoleWholesaler {
		t.Fatalf("expected new role wholesaler, got %s", result.NewRole)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction sequence mismatch: %v", err)
	}
}

// The losing racer re-evaluates the coupon predicate after the winner's
// commit releases the row lock: the coupon no longer matches is_used = false
// and the redemption fails with INVALID_CODE. Exactly one attempt may ever
// succeed.
func TestRedeemRaceLoserGetsInvalidCode(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCouponRedemptionService(db)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).
			AddRow(userID.String(), "basic"))
	mock.ExpectQuery(lockCouponQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "role", "is_used"}))
	mock.ExpectRollback()

	result, err := svc.Redeem(userID.String(), "WELCOME10")
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != errors.CodeInvalidCode {
		t.Fatalf("expected code %s, got %s", errors.CodeInvalidCode, appErr.Code)
	}
	if appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", appErr.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction sequence mismatch: %v", err)
	}
}

// A coupon read from a stale snapshot can arrive already consumed; the
// re-check inside the lock must reject it before any write happens.
func TestRedeemInLockRecheckRejectsUsedCoupon(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCouponRedemptionService(db)

	userID := uuid.New()
	couponID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).
			AddRow(userID.String(), "basic"))
	mock.ExpectQuery(lockCouponQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "role", "is_used"}).
			AddRow(couponID.String(), "WELCOME10", "wholesaler", true))
	mock.ExpectRollback()

	result, err := svc.Redeem(userID.String(), "WELCOME10")
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != errors.CodeAlreadyUsed {
		t.Fatalf("expected code %s, got %s", errors.CodeAlreadyUsed, appErr.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected rollback with no writes: %v", err)
	}
}

func TestRedeemAlreadyUpgradedNeverTouchesCoupon(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCouponRedemptionService(db)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).
			AddRow(userID.String(), "wholesaler"))
	mock.ExpectRollback()

	result, err := svc.Redeem(userID.String(), "WELCOME10")
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != errors.CodeAlreadyUpgraded {
		t.Fatalf("expected code %s, got %s", errors.CodeAlreadyUpgraded, appErr.Code)
	}

	// No coupon query was expected: an upgraded account short-circuits
	// before the coupon row is ever read.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected rollback before coupon lookup: %v", err)
	}
}

func TestRedeemMissingUserRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCouponRedemptionService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}))
	mock.ExpectRollback()

	_, err := svc.Redeem(uuid.NewString(), "WELCOME10")
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != errors.CodeUserNotFound {
		t.Fatalf("expected code %s, got %s", errors.CodeUserNotFound, appErr.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction sequence mismatch: %v", err)
	}
}

// If the coupon write fails after the role write succeeded, the whole
// transaction must roll back: no state where the role changed but the
// coupon stayed unused is ever committed.
func TestRedeemRollsBackOnCouponWriteFailure(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCouponRedemptionService(db)

	userID := uuid.New()
	couponID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockUserQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).
			AddRow(userID.String(), "basic"))
	mock.ExpectQuery(lockCouponQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "role", "is_used"}).
			AddRow(couponID.String(), "WELCOME10", "wholesaler", false))
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "coupons" SET`).WillReturnError(fmt.Errorf("write failed"))
	mock.ExpectRollback()

	result, err := svc.Redeem(userID.String(), "WELCOME10")
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", appErr.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected rollback after failed coupon write: %v", err)
	}
}

func TestRedeemRejectsBlankInputWithoutStoreAccess(t *testing.T) {
	// nil db: any store access would panic, proving the fail-fast path
	// never touches the database.
	svc := NewCouponRedemptionService(nil)

	tests := []struct {
		name   string
		code   string
		userId string
	}{
		{"empty code", "", uuid.NewString()},
		{"whitespace code", "   ", uuid.NewString()},
		{"empty user", "WELCOME10", ""},
		{"whitespace user", "WELCOME10", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Redeem(tt.userId, tt.code)
			if result != nil {
				t.Fatalf("expected nil result, got %+v", result)
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T: %v", err, err)
			}
			if appErr.Code != errors.CodeInvalidInput {
				t.Fatalf("expected code %s, got %s", errors.CodeInvalidInput, appErr.Code)
			}
		})
	}
}

func TestRedeemRejectsMalformedUserIDWithoutStoreAccess(t *testing.T) {
	svc := NewCouponRedemptionService(nil)

	result, err := svc.Redeem("not-a-uuid", "WELCOME10")
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != errors.CodeInvalidInput {
		t.Fatalf("expected code %s, got %s", errors.CodeInvalidInput, appErr.Code)
	}
}

func TestNormalizeRedeemInput(t *testing.T) {
	code, err := normalizeRedeemInput(" ABC123 ", uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "ABC123" {
		t.Fatalf("expected trimmed code ABC123, got %q", code)
	}

	// Case must be preserved: matching is exact on the trimmed value.
	code, err = normalizeRedeemInput("abc123", uuid.NewString())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "abc123" {
		t.Fatalf("expected case preserved, got %q", code)
	}
}

func TestCheckUpgradable(t *testing.T) {
	tests := []struct {
		role     models.UserRole
		wantCode errors.ErrorCode
	}{
		{models.UserRoleBasic, ""},
		{models.UserRoleWholesaler, errors.CodeAlreadyUpgraded},
		{models.UserRoleShopOwner, errors.CodeAlreadyUpgraded},
		{models.UserRoleDeveloper, errors.CodeAlreadyUpgraded},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			err := checkUpgradable(&models.User{Role: tt.role})
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("expected basic user to pass, got %v", err)
				}
				return
			}
			appErr, ok := err.(*errors.AppError)
			if !ok {
				t.Fatalf("expected *AppError, got %T: %v", err, err)
			}
			if appErr.Code != tt.wantCode {
				t.Fatalf("expected code %s, got %s", tt.wantCode, appErr.Code)
			}
		})
	}
}

func TestApplyRedemptionGrantsRoleAndConsumesCoupon(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.UserRoleBasic}
	coupon := &models.Coupon{ID: uuid.New(), Code: "WELCOME10", Role: models.UserRoleWholesaler}

	if err := applyRedemption(user, coupon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Role != models.UserRoleWholesaler {
		t.Fatalf("expected user role wholesaler, got %s", user.Role)
	}
	if !coupon.IsUsed {
		t.Fatal("expected coupon to be marked used")
	}
	if coupon.UsedBy == nil || *coupon.UsedBy != user.ID {
		t.Fatalf("expected used_by %s, got %v", user.ID, coupon.UsedBy)
	}
}

func TestApplyRedemptionRejectsUsedCoupon(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.UserRoleBasic}
	other := uuid.New()
	coupon := &models.Coupon{
		ID:     uuid.New(),
		Code:   "WELCOME10",
		Role:   models.UserRoleWholesaler,
		IsUsed: true,
		UsedBy: &other,
	}

	err := applyRedemption(user, coupon)
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != errors.CodeAlreadyUsed {
		t.Fatalf("expected code %s, got %s", errors.CodeAlreadyUsed, appErr.Code)
	}

	// A rejected redemption must leave both sides untouched.
	if user.Role != models.UserRoleBasic {
		t.Fatalf("expected user role unchanged, got %s", user.Role)
	}
	if *coupon.UsedBy != other {
		t.Fatalf("expected used_by unchanged, got %v", coupon.UsedBy)
	}
}

func TestApplyRedemptionRejectsNonGrantableRole(t *testing.T) {
	for _, role := range []models.UserRole{models.UserRoleBasic, models.UserRoleDeveloper} {
		user := &models.User{ID: uuid.New(), Role: models.UserRoleBasic}
		coupon := &models.Coupon{ID: uuid.New(), Code: "X", Role: role}

		err := applyRedemption(user, coupon)
		appErr, ok := err.(*errors.AppError)
		if !ok {
			t.Fatalf("expected *AppError for role %s, got %T: %v", role, err, err)
		}
		if appErr.Code != errors.CodeInvalidCode {
			t.Fatalf("expected code %s for role %s, got %s", errors.CodeInvalidCode, role, appErr.Code)
		}
		if user.Role != models.UserRoleBasic {
			t.Fatalf("expected user role unchanged for role %s, got %s", role, user.Role)
		}
	}
}
