package services

import "strings"

const maskedCVC = "***"

// maskCardNumber stars every digit that still has four digits after it.
func maskCardNumber(card string) string {
	digitsLeft := 0
	for _, r := range card {
		if r >= '0' && r <= '9' {
			digitsLeft++
		}
	}

	var b strings.Builder
	b.Grow(len(card))
	for _, r := range card {
		if r >= '0' && r <= '9' {
			digitsLeft--
			if digitsLeft >= 4 {
				b.WriteByte('*')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// maskExpirationDate turns YYYY/MM into **/**/YY.
func maskExpirationDate(exp string) string {
	year, _, ok := strings.Cut(exp, "/")
	if !ok || len(year) < 2 {
		return "**/**/**"
	}
	return "**/**/" + year[len(year)-2:]
}
