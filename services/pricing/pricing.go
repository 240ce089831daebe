package pricing

import (
	"math"

	"oselya/models"
)

// Base prices per m² for each cleaning type (in UAH).
var basePrices = map[models.ServiceType]float64{
	models.ServiceMaintenance:    50.0,
	models.ServiceDeep:           80.0,
	models.ServicePostRenovation: 120.0,
}

// Property type multipliers; houses cost 30% more than apartments.
var propertyMultipliers = map[models.PropertyType]float64{
	models.PropertyApartment: 1.0,
	models.PropertyHouse:     1.3,
}

// discountPercent returns the area-tier discount. Tier upper bounds are
// inclusive: exactly 50 m² still gets no discount, exactly 100 m² gets 5%.
func discountPercent(areaM2 float64) int {
	switch {
	case areaM2 <= 50:
		return 0
	case areaM2 <= 100:
		return 5
	case areaM2 <= 150:
		return 10
	default:
		return 15
	}
}

// Quote computes the price breakdown for a cleaning order. Pure and
// deterministic; the caller must have validated areaM2 > 0 and the enum
// values before calling.
func Quote(serviceType models.ServiceType, propertyType models.PropertyType, areaM2 float64) models.PriceQuote {
	basePricePerM2 := basePrices[serviceType]
	propertyMultiplier := propertyMultipliers[propertyType]
	discount := discountPercent(areaM2)

	priceBeforeDiscount := basePricePerM2 * areaM2 * propertyMultiplier
	finalPrice := priceBeforeDiscount * (1 - float64(discount)/100)
	discountAmount := priceBeforeDiscount - finalPrice

	return models.PriceQuote{
		BasePricePerM2:      round2(basePricePerM2),
		AreaM2:              round2(areaM2),
		PropertyMultiplier:  propertyMultiplier,
		PriceBeforeDiscount: round2(priceBeforeDiscount),
		DiscountPercent:     discount,
		DiscountAmount:      round2(discountAmount),
		FinalPrice:          round2(finalPrice),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
