// Package textfilter rewrites already-parsed-looking-but-still-raw source
// text before the real lexer/parser ever see it: infix/unary operators
// become canonical prefix calls, brace/bracket collection literals become
// parenthesized calls, and bare numeric/string literals gain their
// implicit suffix. It operates purely on text, envelope by envelope, each
// envelope carrying its own active filter set.
//
// Grounded directly on original_source/src/text_filter/*.cpp: region
// scanning (skip comments/strings/include payloads), per-envelope active
// filter resolution, and the documented filter equivalences from spec.md
// §4.3. Restructured per the "filter pipeline as a layered pass" design
// note as a region splitter plus independent filter passes over a rope of
// code/skip regions, rather than one mutable global buffer.
package textfilter

import "strings"

type regionKind int

const (
	regionCode regionKind = iota
	regionLineComment
	regionBlockComment
	regionString
	regionInclude
)

type region struct {
	kind regionKind
	text string
}

// splitRegions partitions s into code regions (subject to filter rewrite)
// and skip regions (comments, string/raw-string bodies, include<...>
// payloads) whose bytes must never change. String literal suffixes are
// intentionally left as trailing code text so implicit-utf8 can see them.
func splitRegions(s string) ([]region, error) {
	var regions []region
	i := 0
	n := len(s)
	codeStart := 0

	flushCode := func(end int) {
		if end > codeStart {
			regions = append(regions, region{kind: regionCode, text: s[codeStart:end]})
		}
	}

	for i < n {
		c := s[i]

		if c == '/' && i+1 < n && s[i+1] == '/' {
			flushCode(i)
			j := i + 2
			for j < n && s[j] != '\n' {
				j++
			}
			regions = append(regions, region{kind: regionLineComment, text: s[i:j]})
			i = j
			codeStart = i
			continue
		}

		if c == '/' && i+1 < n && s[i+1] == '*' {
			flushCode(i)
			j := i + 2
			closed := false
			for j+1 < n {
				if s[j] == '*' && s[j+1] == '/' {
					j += 2
					closed = true
					break
				}
				j++
			}
			if !closed {
				return nil, &FilterError{Message: "unterminated block comment"}
			}
			regions = append(regions, region{kind: regionBlockComment, text: s[i:j]})
			i = j
			codeStart = i
			continue
		}

		if strings.HasPrefix(s[i:], `R"(`) {
			flushCode(i)
			end := strings.Index(s[i+3:], `)"`)
			if end < 0 {
				return nil, &FilterError{Message: "unterminated raw string literal"}
			}
			j := i + 3 + end + 2
			regions = append(regions, region{kind: regionString, text: s[i:j]})
			i = j
			codeStart = i
			continue
		}

		if c == '"' || c == '\'' {
			flushCode(i)
			quote := c
			j := i + 1
			closed := false
			for j < n {
				if s[j] == '\\' && j+1 < n {
					j += 2
					continue
				}
				if s[j] == quote {
					j++
					closed = true
					break
				}
				if s[j] == '\n' {
					break
				}
				j++
			}
			if !closed {
				return nil, &FilterError{Message: "unterminated string literal"}
			}
			regions = append(regions, region{kind: regionString, text: s[i:j]})
			i = j
			codeStart = i
			continue
		}

		if strings.HasPrefix(s[i:], "include<") {
			flushCode(i)
			j := i + len("include<")
			depth := 1
			for j < n && depth > 0 {
				if strings.HasPrefix(s[j:], "//") {
					for j < n && s[j] != '\n' {
						j++
					}
					continue
				}
				if strings.HasPrefix(s[j:], "/*") {
					k := strings.Index(s[j+2:], "*/")
					if k < 0 {
						return nil, &FilterError{Message: "unterminated comment inside include<> payload"}
					}
					j = j + 2 + k + 2
					continue
				}
				if s[j] == '<' {
					depth++
				} else if s[j] == '>' {
					depth--
				}
				j++
			}
			if depth != 0 {
				return nil, &FilterError{Message: "unterminated include<> payload"}
			}
			regions = append(regions, region{kind: regionInclude, text: s[i:j]})
			i = j
			codeStart = i
			continue
		}

		i++
	}
	flushCode(n)
	return regions, nil
}

// FilterError is a textual-rewrite failure, carrying the filter name that
// was active when the failure was detected (set by the caller).
type FilterError struct {
	Filter  string
	Message string
}

func (e *FilterError) Error() string {
	if e.Filter == "" {
		return e.Message
	}
	return e.Filter + ": " + e.Message
}

// placeholderByte stands in for one whole skip region during structural
// scans (bracket/depth matching) so that a brace or quote hiding inside a
// comment or string never perturbs the scan, and a collection literal that
// happens to contain a string element is not split across unrelated code
// chunks.
const placeholderByte = 0x01

// flattenForScan replaces every skip region in s with a single placeholder
// byte, returning the flattened text and the original region texts in
// order so unflatten can restore them.
func flattenForScan(s string) (logical string, originals []string, err error) {
	regions, err := splitRegions(s)
	if err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	var origs []string
	for _, r := range regions {
		if r.kind == regionCode {
			sb.WriteString(r.text)
			continue
		}
		sb.WriteByte(placeholderByte)
		origs = append(origs, r.text)
	}
	return sb.String(), origs, nil
}

// unflatten restores the skip regions flattenForScan replaced.
func unflatten(logical string, originals []string) string {
	var sb strings.Builder
	idx := 0
	for i := 0; i < len(logical); i++ {
		if logical[i] == placeholderByte {
			sb.WriteString(originals[idx])
			idx++
			continue
		}
		sb.WriteByte(logical[i])
	}
	return sb.String()
}

// mapCode rewrites every code region of s with fn, leaving skip regions
// byte-for-byte identical — the invariant spec.md §8 requires of every
// text-filter pass.
func mapCode(s string, fn func(string) (string, error)) (string, error) {
	regions, err := splitRegions(s)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, r := range regions {
		if r.kind != regionCode {
			sb.WriteString(r.text)
			continue
		}
		out, err := fn(r.text)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}
