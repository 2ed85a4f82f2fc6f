package badge

import (
	"strconv"
	"strings"
)

// Checksum returns the letter printed after the registration number on a badge.
func Checksum(regNo int) byte {
	sum := 0
	for _, digit := range strconv.Itoa(regNo) {
		sum = (sum*3 + int(digit-'0')) % 26
	}
	return byte('A' + sum)
}

// Format renders a registration number together with its checksum letter.
func Format(regNo int) string {
	return strconv.Itoa(regNo) + string(Checksum(regNo))
}

// Parse validates a badge number such as "12345X" and returns the numeric part.
// Input is trimmed and upper-cased first.
func Parse(s string) (int, bool) {
	normalized := Normalize(s)
	if len(normalized) < 2 {
		return 0, false
	}

	digits, letter := normalized[:len(normalized)-1], normalized[len(normalized)-1]
	if letter < 'A' || letter > 'Z' {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}

	regNo, err := strconv.Atoi(digits)
	if err != nil || regNo <= 0 {
		return 0, false
	}
	if Checksum(regNo) != letter {
		return 0, false
	}
	return regNo, true
}

func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
