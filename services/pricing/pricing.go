package pricing

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CommissionRate is the platform's cut of every confirmed booking. Travelers pay the same
// rate as a booking fee on top of an itinerary subtotal.
const CommissionRate = 0.15

// Commission returns the platform share of amount.
func Commission(amount float64) float64 {
	return CommissionRate * amount
}

// NetPayout is what the vendor keeps after commission.
func NetPayout(amount float64) float64 {
	return amount - Commission(amount)
}

// BookingFee is charged to travelers when an itinerary is checked out.
func BookingFee(subtotal float64) float64 {
	return Commission(subtotal)
}

// BookingRate is bookings per package, 0 when there are no packages.
func BookingRate(bookings, packages int) float64 {
	if packages <= 0 {
		return 0
	}
	return float64(bookings) / float64(packages)
}

// FormatLoadFactor renders a booking rate as "1.5x".
func FormatLoadFactor(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		rate = 0
	}
	return fmt.Sprintf("%.1fx", rate)
}

// Season selects a price multiplier.
type Season string

const (
	SeasonPeak     Season = "Peak"
	SeasonLow      Season = "Low"
	SeasonStandard Season = "Standard"
)

var seasonMultipliers = map[Season]float64{
	SeasonPeak:     1.35,
	SeasonLow:      0.85,
	SeasonStandard: 1.0,
}

// Seasons lists the seasons in display order.
var Seasons = []Season{SeasonPeak, SeasonStandard, SeasonLow}

// SeasonalPrice applies the season's multiplier. Unknown seasons price as Standard.
func SeasonalPrice(base float64, season Season) float64 {
	m, ok := seasonMultipliers[season]
	if !ok {
		return base
	}
	return base * m
}

// Currency is a display currency. Amounts are always held in USD.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	LKR Currency = "LKR"
)

// Currencies lists the supported display currencies.
var Currencies = []Currency{USD, EUR, LKR}

// Fixed display rates from USD.
const (
	eurRate = 0.92
	lkrRate = 300
)

var enUS = message.NewPrinter(language.AmericanEnglish)

// FormatPrice renders a USD amount in the target currency. Unknown currencies render
// as USD.
func FormatPrice(amount float64, currency Currency) string {
	switch currency {
	case EUR:
		return "€" + fmt.Sprintf("%.0f", math.Round(amount*eurRate))
	case LKR:
		return "Rs. " + enUS.Sprint(number.Decimal(amount*lkrRate, number.MaxFractionDigits(3)))
	default:
		return "$" + fmt.Sprintf("%.0f", math.Round(amount))
	}
}

// SeasonQuote is one row of a price comparison.
type SeasonQuote struct {
	Season   Season              `json:"season"`
	Amount   float64             `json:"amount"`
	Displays map[Currency]string `json:"displays"`
}

// Compare quotes base across every season and currency.
func Compare(base float64) []SeasonQuote {
	quotes := make([]SeasonQuote, 0, len(Seasons))
	for _, season := range Seasons {
		amount := SeasonalPrice(base, season)
		displays := make(map[Currency]string, len(Currencies))
		for _, c := range Currencies {
			displays[c] = FormatPrice(amount, c)
		}
		quotes = append(quotes, SeasonQuote{Season: season, Amount: amount, Displays: displays})
	}
	return quotes
}
