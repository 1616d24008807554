package textfilter

import "strings"

var collectionNames = []string{"array", "vector", "map"}

// applyCollections rewrites `array<T>{…}` / `array<T>[…]` (and vector, map)
// into canonical `array<T>(…)` call form. For `map`, `=`-joined key/value
// pairs are re-flattened to positional `key, value, key, value, …`; pairs
// joined only by whitespace are left as written; an `=` nested inside a deeper call/bracket
// is left untouched, and comparison operators (`==`, `!=`, `<=`, `>=`) are
// never mistaken for the pair separator.
//
// Idempotent: once a literal's outer delimiter is already `(`, this pass
// leaves it unchanged.
func applyCollections(s string) (string, error) {
	logical, origs, err := flattenForScan(s)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	i := 0
	n := len(logical)
	for i < n {
		name, matched := matchCollectionName(logical, i)
		if !matched {
			sb.WriteByte(logical[i])
			i++
			continue
		}

		j := i + len(name)
		angleStart := j
		for j < n && logical[j] == ' ' {
			j++
		}
		if j >= n || logical[j] != '<' {
			sb.WriteString(logical[i:angleStart])
			i = angleStart
			continue
		}
		angleEnd := matchBalanced(logical, j, '<', '>')
		if angleEnd < 0 {
			sb.WriteString(logical[i:angleStart])
			i = angleStart
			continue
		}
		templateArgs := logical[j : angleEnd+1]

		k := angleEnd + 1
		for k < n && logical[k] == ' ' {
			k++
		}
		if k >= n || (logical[k] != '{' && logical[k] != '[') {
			sb.WriteString(logical[i : angleEnd+1])
			i = angleEnd + 1
			continue
		}
		open := logical[k]
		close := byte('}')
		if open == '[' {
			close = ']'
		}
		bodyEnd := matchBalanced(logical, k, rune(open), rune(close))
		if bodyEnd < 0 {
			return "", &FilterError{Filter: "collections", Message: "unterminated " + name + " literal"}
		}
		body := logical[k+1 : bodyEnd]

		var rewritten string
		if name == "map" {
			rewritten = flattenMapPairs(body)
		} else {
			rewritten = body
		}

		sb.WriteString(name)
		sb.WriteString(templateArgs)
		sb.WriteByte('(')
		sb.WriteString(rewritten)
		sb.WriteByte(')')
		i = bodyEnd + 1
	}

	return unflatten(sb.String(), origs), nil
}

func matchCollectionName(s string, pos int) (string, bool) {
	if pos > 0 && isIdentChar(s[pos-1]) {
		return "", false
	}
	for _, name := range collectionNames {
		if strings.HasPrefix(s[pos:], name) {
			end := pos + len(name)
			if end < len(s) && isIdentChar(s[end]) {
				continue
			}
			return name, true
		}
	}
	return "", false
}

// matchBalanced returns the index of the close byte matching the open byte
// at s[pos], or -1 if unterminated. Only the open/close pair passed in is
// depth-tracked; other delimiter kinds inside are not counted.
func matchBalanced(s string, pos int, open, closeR rune) int {
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case byte(open):
			depth++
		case byte(closeR):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// flattenMapPairs turns `k1 = v1, k2 = v2` into `k1, v1, k2, v2` (pairs
// joined only by whitespace are not split), leaving any `=` nested inside a deeper () [] {}
// span untouched and never touching `==`, `!=`, `<=`, `>=`. Angle brackets
// are not depth-tracked here — that heuristic belongs to the `operators`
// filter's template-boundary handling, not to pair flattening.
func flattenMapPairs(body string) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '=':
			if depth == 0 {
				prev := byte(0)
				if i > 0 {
					prev = body[i-1]
				}
				next := byte(0)
				if i+1 < len(body) {
					next = body[i+1]
				}
				isComparison := prev == '=' || prev == '!' || prev == '<' || prev == '>' || next == '='
				if !isComparison {
					trimmed := strings.TrimRight(sb.String(), " \t")
					sb.Reset()
					sb.WriteString(trimmed)
					sb.WriteString(", ")
					for i+1 < len(body) && (body[i+1] == ' ' || body[i+1] == '\t') {
						i++
					}
					continue
				}
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
