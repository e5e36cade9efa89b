package domain

import (
	"regexp"
	"strings"
)

var (
	nonDigitRegex = regexp.MustCompile(`\D`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// letters I, O and Q are not legal in a VIN
	vinRegex = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
)

// vinLetterValues is the ISO 3779 transliteration table
var vinLetterValues = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

var vinWeights = [17]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// StripDocument removes everything but digits from a formatted document number
func StripDocument(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// IsValidEmail reports whether s is shaped like an email address
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidCPF validates a natural-person document, formatted
// (000.000.000-00) or bare 11 digits, by its two check digits.
func IsValidCPF(s string) bool {
	d := StripDocument(s)
	if len(d) != 11 || allSameDigit(d) {
		return false
	}

	dv1 := cpfCheckDigit(d[:9], 10)
	dv2 := cpfCheckDigit(d[:10], 11)
	return int(d[9]-'0') == dv1 && int(d[10]-'0') == dv2
}

func cpfCheckDigit(digits string, startWeight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (startWeight - i)
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

// IsValidCNPJ validates a company document, formatted
// (00.000.000/0000-00) or bare 14 digits, by its two check digits.
func IsValidCNPJ(s string) bool {
	d := StripDocument(s)
	if len(d) != 14 || allSameDigit(d) {
		return false
	}

	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	return int(d[12]-'0') == cnpjCheckDigit(d[:12], weights1) &&
		int(d[13]-'0') == cnpjCheckDigit(d[:13], weights2)
}

func cnpjCheckDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

// IsValidDocument accepts either a CPF or a CNPJ, chosen by digit count
func IsValidDocument(s string) bool {
	switch len(StripDocument(s)) {
	case 11:
		return IsValidCPF(s)
	case 14:
		return IsValidCNPJ(s)
	}
	return false
}

func allSameDigit(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}

// IsValidStateRegistration checks a state registration (inscrição estadual)
// against the issuing state's check-digit rule. States without a rule
// implemented here fall back to a digit-count bound. The literal "ISENTO"
// (exempt) is always accepted.
func IsValidStateRegistration(state, ie string) bool {
	if strings.EqualFold(strings.TrimSpace(ie), "ISENTO") {
		return true
	}

	d := StripDocument(ie)

	switch strings.ToUpper(state) {
	case "SP":
		return isValidIESaoPaulo(d)
	case "RJ":
		return isValidIERioDeJaneiro(d)
	case "RS":
		return isValidIERioGrandeDoSul(d)
	default:
		return len(d) >= 2 && len(d) <= 14
	}
}

func isValidIESaoPaulo(d string) bool {
	if len(d) != 12 {
		return false
	}

	weights1 := []int{1, 3, 4, 5, 6, 7, 8, 10}
	sum := 0
	for i, w := range weights1 {
		sum += int(d[i]-'0') * w
	}
	// the check digit is the rightmost digit of the remainder
	if int(d[8]-'0') != (sum%11)%10 {
		return false
	}

	weights2 := []int{3, 2, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	sum = 0
	for i, w := range weights2 {
		sum += int(d[i]-'0') * w
	}
	return int(d[11]-'0') == (sum%11)%10
}

func isValidIERioDeJaneiro(d string) bool {
	if len(d) != 8 {
		return false
	}

	weights := []int{2, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i, w := range weights {
		sum += int(d[i]-'0') * w
	}
	dv := 11 - sum%11
	if dv >= 10 {
		dv = 0
	}
	return int(d[7]-'0') == dv
}

func isValidIERioGrandeDoSul(d string) bool {
	if len(d) != 10 {
		return false
	}

	weights := []int{2, 9, 8, 7, 6, 5, 4, 3, 2}
	sum := 0
	for i, w := range weights {
		sum += int(d[i]-'0') * w
	}
	dv := 11 - sum%11
	if dv >= 10 {
		dv = 0
	}
	return int(d[9]-'0') == dv
}

// IsValidVIN validates a 17-character vehicle identification number by its
// position-9 check digit. Vehicles older than the 1981 standard don't carry
// a check digit; callers should skip validation for those model years.
func IsValidVIN(vin string) bool {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if !vinRegex.MatchString(vin) {
		return false
	}

	sum := 0
	for i := 0; i < 17; i++ {
		c := vin[i]
		v := 0
		if c >= '0' && c <= '9' {
			v = int(c - '0')
		} else {
			v = vinLetterValues[c]
		}
		sum += v * vinWeights[i]
	}

	check := byte('0' + sum%11)
	if sum%11 == 10 {
		check = 'X'
	}
	return vin[8] == check
}
