package services

import (
	"errors"

	"github.com/HSouheill/mlm_backoffice/repositories"
)

// Not-found errors name the entity that was missing so handlers can answer 404
// with a useful message.
var (
	ErrUserNotFound           = errors.New("user not found")
	ErrRepresentativeNotFound = errors.New("representative not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrInventoryNotFound      = errors.New("inventory record not found")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrSaleNotFound           = errors.New("sale not found")
	ErrCommissionNotFound     = errors.New("commission not found")
)

// Business rule violations.
var (
	ErrSponsorNotFound        = errors.New("sponsor not found")
	ErrSponsorNotEligible     = errors.New("sponsor must be a representative")
	ErrSponsorCycle           = errors.New("sponsor assignment would create a cycle")
	ErrInvalidAmount          = errors.New("amounts must not be negative")
	ErrDiscountTooLarge       = errors.New("discount exceeds subtotal")
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrInvalidRate            = errors.New("commission rate must be between 0 and 100")
	ErrInvalidPhone           = errors.New("invalid phone number")
	ErrNegativeStock          = errors.New("stock levels must not be negative")
	ErrProductInactive        = errors.New("product is not active")
	ErrRepresentativeInactive = errors.New("representative is not active")
	ErrUsernameTaken          = errors.New("username or email already in use")
	ErrSKUTaken               = errors.New("sku already in use")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrCannotDeleteSelf       = errors.New("you cannot delete your own account")
	ErrRepresentativeOwned    = errors.New("customer belongs to another representative")
)

// Session errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrForbidden          = errors.New("forbidden")
)

// orNotFound swaps the store's generic ErrNotFound for an entity specific one.
func orNotFound(err, notFound error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return err
}
