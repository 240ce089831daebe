package models

// PriceQuote is the immutable result of a price calculation.
// Monetary fields are rounded to 2 decimal places at the point of output;
// internal computation runs at full precision.
type PriceQuote struct {
	BasePricePerM2      float64 `json:"basePricePerM2"`
	AreaM2              float64 `json:"areaM2"`
	PropertyMultiplier  float64 `json:"propertyMultiplier"`
	PriceBeforeDiscount float64 `json:"priceBeforeDiscount"`
	DiscountPercent     int     `json:"discountPercent"`
	DiscountAmount      float64 `json:"discountAmount"`
	FinalPrice          float64 `json:"finalPrice"`
}
