package hl7

// NormalizeTimestamp converts an HL7 TS token (YYYYMMDD[HHMM[SS]][.ffff][+/-ZZZZ])
// to its ISO 8601 form. Classification is purely by shape:
//
//	14 digits -> 2006-01-02T15:04:05
//	12 digits -> 2006-01-02T15:04
//	 8 digits -> 2006-01-02
//
// A trailing signed 4-digit offset is appended verbatim; without one, a UTC
// "Z" marker is appended when a time component is present. Fractional
// seconds are discarded. Any other shape is returned byte-for-byte
// unchanged, so callers must treat a non-canonical result as present but
// unparseable rather than as an error.
func NormalizeTimestamp(token string) string {
	rest := token

	// Step 1: peel a trailing +HHMM / -HHMM offset.
	offset := ""
	if n := len(rest); n >= 5 {
		sign := rest[n-5]
		if (sign == '+' || sign == '-') && allDigits(rest[n-4:]) {
			offset = rest[n-5:]
			rest = rest[:n-5]
		}
	}

	// Step 2: drop fractional seconds.
	for i := 0; i < len(rest); i++ {
		if rest[i] == '.' {
			rest = rest[:i]
			break
		}
	}

	if !allDigits(rest) {
		return token
	}

	// Step 3: classify by digit count.
	var normalized string
	switch len(rest) {
	case 14:
		normalized = dashedDate(rest) + "T" + rest[8:10] + ":" + rest[10:12] + ":" + rest[12:14]
	case 12:
		normalized = dashedDate(rest) + "T" + rest[8:10] + ":" + rest[10:12]
	case 8:
		normalized = dashedDate(rest)
	default:
		return token
	}

	if offset != "" {
		return normalized + offset
	}
	if len(rest) > 8 {
		return normalized + "Z"
	}
	return normalized
}

func dashedDate(digits string) string {
	return digits[0:4] + "-" + digits[4:6] + "-" + digits[6:8]
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
