package xhr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// ToQueryString encodes data as key=value pairs joined by '&'.
// Keys are emitted as is; values are stringified and percent-encoded.
// Pair order follows map iteration and is not stable.
func ToQueryString(data map[string]any) string {
	pairs := make([]string, 0, len(data))
	for name, value := range data {
		pairs = append(pairs, name+"="+EncodeURIComponent(Stringify(value)))
	}
	return strings.Join(pairs, "&")
}

// EncodeURIComponent percent-encodes every byte outside A-Z a-z 0-9 - _ . ! ~ * ' ( )
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// Stringify converts a scalar to the string form used in query strings and form bodies
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case float32:
		return formatNumber(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// formatNumber renders a float the shortest way, switching to exponent form
// outside [1e-6, 1e21) like number-to-string conversion in browsers.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if a := math.Abs(f); a < 1e-6 || a >= 1e21 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// appendQuery joins a query string onto url
func appendQuery(url, query string) string {
	if query == "" {
		return url
	}
	switch {
	case strings.HasSuffix(url, "?"), strings.HasSuffix(url, "&"):
		return url + query
	case strings.Contains(url, "?"):
		return url + "&" + query
	}
	return url + "?" + query
}
