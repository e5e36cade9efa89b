package api

import "fmt"

// Currency is an amount of money in cents
// swagger:model
type Currency int

// String formats the amount with two decimal places, e.g. 12345 -> "123.45"
func (c Currency) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
