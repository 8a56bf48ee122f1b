package promo

import "errors"

var ErrNotFound = errors.New("promo code not found")

// PromoCode is a single-use discount token. Active flips to false exactly
// once, when a checkout that applied the code commits; it never flips back.
type PromoCode struct {
	ID              int    `json:"promoId"`
	Code            string `json:"code"`
	DiscountPercent int    `json:"discountPercent"`
	Active          bool   `json:"active"`
}
