package dynamo

import "github.com/shopspring/decimal"

// parseDecimal convierte el string decimal del item; un valor corrupto o
// vacío degrada a cero en vez de tumbar el listado completo.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
