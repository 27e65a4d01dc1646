package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in a single currency.
// It is a value type: operations return new amounts and never modify the receiver.
type Amount struct {
	// Value is the signed amount. Positive balances mean the holder is owed money.
	Value decimal.Decimal `json:"value"`

	// CurrencyCode is the ISO 4217 code (e.g., "USD", "EUR").
	CurrencyCode string `json:"currency"`
}

// NewAmount builds an Amount from a float, for tests and literals.
func NewAmount(value float64, currencyCode string) Amount {
	return Amount{Value: decimal.NewFromFloat(value), CurrencyCode: currencyCode}
}

// ZeroAmount returns a zero amount in the given currency.
func ZeroAmount(currencyCode string) Amount {
	return Amount{Value: decimal.Zero, CurrencyCode: currencyCode}
}

// Equal reports whether both amounts have the same currency and numeric value.
func (a Amount) Equal(other Amount) bool {
	return a.CurrencyCode == other.CurrencyCode && a.Value.Equal(other.Value)
}

// IsZero reports whether the value is zero.
func (a Amount) IsZero() bool {
	return a.Value.IsZero()
}

// Add returns a + value, keeping the currency.
func (a Amount) Add(value decimal.Decimal) Amount {
	return Amount{Value: a.Value.Add(value), CurrencyCode: a.CurrencyCode}
}

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	return Amount{Value: a.Value.Neg(), CurrencyCode: a.CurrencyCode}
}

// Abs returns the absolute amount.
func (a Amount) Abs() Amount {
	return Amount{Value: a.Value.Abs(), CurrencyCode: a.CurrencyCode}
}

// String implements fmt.Stringer.
func (a Amount) String() string {
	return a.Value.String() + " " + a.CurrencyCode
}

// Format renders the amount for display: sign, currency symbol, then the
// absolute value rounded to cents with "." grouping thousands and "," as the
// decimal separator (e.g., "-$5.123.321,32").
func (a Amount) Format(withCurrency bool) string {
	var b strings.Builder
	if a.Value.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	if withCurrency {
		b.WriteString(CurrencySymbol(a.CurrencyCode))
	}

	fixed := a.Value.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	b.WriteString(groupThousands(intPart))
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"RUB": "₽",
	"UAH": "₴",
	"GEL": "₾",
	"AMD": "֏",
	"KRW": "₩",
	"TRY": "₺",
	"ILS": "₪",
	"THB": "฿",
	"VND": "₫",
	"NGN": "₦",
	"PHP": "₱",
	"KZT": "₸",
	"PLN": "zł",
	"BRL": "R$",
	"CHF": "CHF",
	"CAD": "CA$",
	"AUD": "A$",
}

// CurrencySymbol returns the display symbol for a currency code, or the code
// itself when no symbol is known.
func CurrencySymbol(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	return code
}

var minorUnits = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// MinorUnits returns the number of fractional digits of the currency's
// smallest unit. Unknown currencies default to 2.
func MinorUnits(code string) int32 {
	if units, ok := minorUnits[code]; ok {
		return units
	}
	return 2
}
