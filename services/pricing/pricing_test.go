package pricing_test

import (
	"testing"

	"oselya/models"
	"oselya/services/pricing"

	"github.com/stretchr/testify/assert"
)

func TestQuote_DeepApartment50(t *testing.T) {
	q := pricing.Quote(models.ServiceDeep, models.PropertyApartment, 50)

	assert.Equal(t, 80.0, q.BasePricePerM2)
	assert.Equal(t, 4000.0, q.PriceBeforeDiscount)
	assert.Equal(t, 0, q.DiscountPercent)
	assert.Equal(t, 4000.0, q.FinalPrice)
}

func TestQuote_PostRenovationHouse200(t *testing.T) {
	q := pricing.Quote(models.ServicePostRenovation, models.PropertyHouse, 200)

	assert.Equal(t, 31200.0, q.PriceBeforeDiscount)
	assert.Equal(t, 15, q.DiscountPercent)
	assert.Equal(t, 26520.0, q.FinalPrice)
	assert.Equal(t, 4680.0, q.DiscountAmount)
}

func TestQuote_DiscountTierBoundaries(t *testing.T) {
	cases := []struct {
		area    float64
		percent int
	}{
		{50, 0},
		{50.01, 5},
		{100, 5},
		{100.01, 10},
		{150, 10},
		{150.01, 15},
	}
	for _, tc := range cases {
		q := pricing.Quote(models.ServiceMaintenance, models.PropertyApartment, tc.area)
		assert.Equalf(t, tc.percent, q.DiscountPercent, "area=%v", tc.area)
	}
}

func TestQuote_BreakdownConsistency(t *testing.T) {
	types := []models.ServiceType{models.ServiceMaintenance, models.ServiceDeep, models.ServicePostRenovation}
	props := []models.PropertyType{models.PropertyApartment, models.PropertyHouse}
	areas := []float64{1, 49.5, 50, 75.5, 100, 120, 150, 151, 400}

	for _, st := range types {
		for _, pt := range props {
			for _, area := range areas {
				q := pricing.Quote(st, pt, area)
				assert.LessOrEqual(t, q.FinalPrice, q.PriceBeforeDiscount)
				assert.InDelta(t, q.PriceBeforeDiscount, q.DiscountAmount+q.FinalPrice, 0.01)
				expected := q.PriceBeforeDiscount * (1 - float64(q.DiscountPercent)/100)
				assert.InDelta(t, expected, q.FinalPrice, 0.01)
			}
		}
	}
}

func TestQuote_Deterministic(t *testing.T) {
	a := pricing.Quote(models.ServiceDeep, models.PropertyHouse, 77.7)
	b := pricing.Quote(models.ServiceDeep, models.PropertyHouse, 77.7)
	assert.Equal(t, a, b)
}
