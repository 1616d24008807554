package textfilter

import "strings"

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isHexDigitByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

var intSuffixes = []string{"i32", "i64", "u64"}

// applyImplicitI32 inserts the `i32` suffix onto unsuffixed integer
// literals, leaving floats (dot or exponent present) and already-suffixed
// literals unchanged. Operates code-region-local; a literal split across a
// comment is not recognized (documented simplification).
func applyImplicitI32(s string) (string, error) {
	return mapCode(s, func(code string) (string, error) {
		var sb strings.Builder
		i := 0
		n := len(code)
		for i < n {
			c := code[i]
			if !isDigitByte(c) || (i > 0 && isIdentChar(code[i-1])) {
				sb.WriteByte(c)
				i++
				continue
			}

			start := i
			isHex := false
			if c == '0' && i+1 < n && (code[i+1] == 'x' || code[i+1] == 'X') {
				isHex = true
				i += 2
				for i < n && isHexDigitByte(code[i]) {
					i++
				}
			} else {
				for i < n && isDigitByte(code[i]) {
					i++
				}
			}

			isFloat := false
			if !isHex {
				if i < n && code[i] == '.' && i+1 < n && isDigitByte(code[i+1]) {
					isFloat = true
					i++
					for i < n && isDigitByte(code[i]) {
						i++
					}
				}
				if i < n && (code[i] == 'e' || code[i] == 'E') {
					j := i + 1
					if j < n && (code[j] == '+' || code[j] == '-') {
						j++
					}
					if j < n && isDigitByte(code[j]) {
						isFloat = true
						i = j
						for i < n && isDigitByte(code[i]) {
							i++
						}
					}
				}
			}

			digits := code[start:i]
			if isFloat {
				// Leave float literals and any trailing width suffix alone;
				// implicit-i32 never applies to them.
				j := i
				for j < n && isIdentChar(code[j]) {
					j++
				}
				sb.WriteString(code[start:j])
				i = j
				continue
			}

			already := false
			for _, suf := range intSuffixes {
				if strings.HasPrefix(code[i:], suf) && (i+len(suf) >= n || !isIdentChar(code[i+len(suf)])) {
					already = true
					break
				}
			}
			if already {
				j := i
				for j < n && isIdentChar(code[j]) {
					j++
				}
				sb.WriteString(code[start:j])
				i = j
				continue
			}

			sb.WriteString(digits)
			sb.WriteString("i32")
		}
		return sb.String(), nil
	})
}

var stringSuffixes = []string{"raw_utf8", "raw_ascii", "utf8", "ascii"}

// applyImplicitUtf8 inserts the `utf8` suffix onto string literals that
// carry none, single- and double-quoted alike. Unlike applyImplicitI32,
// this filter must look past the region boundary of the string literal
// itself, so it works over the full region list rather than mapCode.
func applyImplicitUtf8(s string) (string, error) {
	regions, err := splitRegions(s)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for idx, r := range regions {
		if r.kind != regionString {
			sb.WriteString(r.text)
			continue
		}
		sb.WriteString(r.text)
		hasSuffix := false
		if idx+1 < len(regions) && regions[idx+1].kind == regionCode {
			next := regions[idx+1].text
			for _, suf := range stringSuffixes {
				if strings.HasPrefix(next, suf) {
					hasSuffix = true
					break
				}
			}
			if !hasSuffix && len(next) > 0 && isIdentChar(next[0]) {
				// Some other identifier-like suffix is already present;
				// leave it for the decoder to reject rather than guessing.
				hasSuffix = true
			}
		}
		if !hasSuffix {
			sb.WriteString("utf8")
		}
	}
	return sb.String(), nil
}
