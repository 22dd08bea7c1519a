package comms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizePhone converts a phone number as typed into E.164. Ten
// digit numbers are taken as North American. ok is false when the
// input cannot be a dialable number.
func NormalizePhone(s string) (e164 string, ok bool) {
	s = strings.TrimSpace(s)
	international := strings.HasPrefix(s, "+")
	var digits strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		case r == '+' || r == '-' || r == '.' || r == '(' || r == ')' || unicode.IsSpace(r):
		default:
			return "", false
		}
	}
	d := digits.String()
	switch {
	case international && len(d) >= 8 && len(d) <= 15:
		return "+" + d, true
	case len(d) == 10:
		return "+1" + d, true
	case len(d) == 11 && d[0] == '1':
		return "+" + d, true
	}
	return "", false
}

// SMS segment sizes for the GSM-7 alphabet and for UCS-2.
const (
	gsmSingle  = 160
	gsmSegment = 153
	ucsSingle  = 70
	ucsSegment = 67
)

// SMSSegments estimates how many carrier segments a text message will
// be split into.
func SMSSegments(msg string) int {
	n := utf8.RuneCountInString(msg)
	if n == 0 {
		return 0
	}
	single, multi := gsmSingle, gsmSegment
	for _, r := range msg {
		if r > 0x7e {
			single, multi = ucsSingle, ucsSegment
			break
		}
	}
	if n <= single {
		return 1
	}
	return (n + multi - 1) / multi
}
