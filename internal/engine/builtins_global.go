package engine

import (
	"math"
	"strconv"
	"strings"
)

func builtinParseInt(ctx *Context, this Value, args []Value) (Value, error) {
	s := strings.TrimSpace(ToGoString(arg(args, 0)))
	radix := 10
	if len(args) > 1 && !args[1].IsUndefined() {
		if r := int(ToNumberPrimitive(args[1])); r != 0 {
			radix = r
		}
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	if (radix == 16 || radix == 10) && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
		radix = 16
	}
	end := 0
	for end < len(s) && isDigitForRadix(s[end], radix) {
		end++
	}
	if end == 0 {
		return Binary(math.NaN()), nil
	}
	n, err := strconv.ParseInt(s[:end], radix, 64)
	if err != nil {
		return Binary(math.NaN()), nil
	}
	if neg {
		n = -n
	}
	return Number(float64(n)), nil
}

func isDigitForRadix(c byte, radix int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < radix
}

func builtinParseFloat(ctx *Context, this Value, args []Value) (Value, error) {
	s := strings.TrimSpace(ToGoString(arg(args, 0)))
	end := 0
	seenDot, seenExp, seenDigit := false, false, false
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		case (c == '+' || c == '-') && (end == 0 || s[end-1] == 'e' || s[end-1] == 'E'):
		default:
			goto done
		}
		end++
	}
done:
	if !seenDigit {
		return Binary(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return Binary(math.NaN()), nil
	}
	return Number(f), nil
}

func builtinIsNaN(ctx *Context, this Value, args []Value) (Value, error) {
	return Boolean(math.IsNaN(ToNumberPrimitive(arg(args, 0)))), nil
}

func builtinIsFinite(ctx *Context, this Value, args []Value) (Value, error) {
	n := ToNumberPrimitive(arg(args, 0))
	return Boolean(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
}
