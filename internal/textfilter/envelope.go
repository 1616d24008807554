package textfilter

import (
	"strings"

	"github.com/primelang/primec/internal/registry"
	"github.com/primelang/primec/internal/transformrule"
)

// DefaultFilters is the conventional filter order used when the driver
// does not override it: collections first (so operators never has to
// reason about brace/bracket literal shapes), then operators, then the
// two implicit-suffix passes.
var DefaultFilters = []string{"collections", "operators", "implicit-i32", "implicit-utf8"}

// Options bundles the ordered default filter list and the path-scoped
// rules consulted when an envelope carries no explicit leading transform
// list of its own.
type Options struct {
	Filters []string
	Rules   []transformrule.Rule
}

// Run applies the text-filter pipeline to source, returning the rewritten
// text ready for the lexer.
func Run(source string, opts Options) (string, error) {
	return processEnvelope(source, "", opts.Filters, opts.Rules)
}

// codeMask marks, byte-for-byte, which offsets of text belong to a code
// region (true) versus a skip region (comment/string/include — false), so
// envelope/brace discovery never fires on a brace hiding inside a comment.
func codeMask(text string) ([]bool, error) {
	regions, err := splitRegions(text)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(text))
	off := 0
	for _, r := range regions {
		isCode := r.kind == regionCode
		for i := 0; i < len(r.text); i++ {
			mask[off+i] = isCode
		}
		off += len(r.text)
	}
	return mask, nil
}

type childEnvelope struct {
	headerStart  int
	transformEnd int // index just past the leading `]`, or == headerStart if none
	name         string
	bodyOpen     int // index of the `{`
	bodyClose    int // index of the matching `}`
}

// findChildEnvelopes scans text for namespace blocks and parenthesized
// definition/execution bodies: any `(...)​{...}` or `namespace IDENT {...}`
// shape at this nesting level. A plain binding's `name{initializer}` (no
// parens before the brace) is deliberately not treated as its own
// envelope — it carries a single initializer expression, not a statement
// list requiring independent filter scoping.
func findChildEnvelopes(text string) ([]childEnvelope, error) {
	mask, err := codeMask(text)
	if err != nil {
		return nil, err
	}
	var children []childEnvelope
	i := 0
	n := len(text)
	for i < n {
		if !mask[i] {
			i++
			continue
		}

		if matchKeyword(text, mask, i, "namespace") {
			start := i
			j := i + len("namespace")
			j = skipSpaceMasked(text, mask, j)
			nameStart := j
			for j < n && mask[j] && isIdentByte(text[j]) {
				j++
			}
			name := text[nameStart:j]
			j = skipSpaceMasked(text, mask, j)
			if j < n && mask[j] && text[j] == '{' {
				close := matchBalancedMasked(text, mask, j, '{', '}')
				if close >= 0 {
					children = append(children, childEnvelope{
						headerStart:  start,
						transformEnd: start,
						name:         name,
						bodyOpen:     j,
						bodyClose:    close,
					})
					i = close + 1
					continue
				}
			}
			i = j
			continue
		}

		if text[i] == '[' {
			headerStart := i
			closeBr := matchBalancedMasked(text, mask, i, '[', ']')
			if closeBr < 0 {
				i++
				continue
			}
			j := skipSpaceMasked(text, mask, closeBr+1)
			if child, ok := tryMatchCallableBody(text, mask, headerStart, j); ok {
				child.transformEnd = closeBr + 1
				children = append(children, child)
				i = child.bodyClose + 1
				continue
			}
			i = closeBr + 1
			continue
		}

		if isIdentByte(text[i]) && (i == 0 || !isIdentByte(text[i-1])) {
			if child, ok := tryMatchCallableBody(text, mask, i, i); ok {
				children = append(children, child)
				i = child.bodyClose + 1
				continue
			}
		}

		i++
	}
	return children, nil
}

// tryMatchCallableBody attempts to parse, starting at nameStart, a
// `name[<template>](params) { body }` shape, where headerStart is where
// the envelope's header (including any leading `[transforms]`) begins.
func tryMatchCallableBody(text string, mask []bool, headerStart, nameStart int) (childEnvelope, bool) {
	n := len(text)
	j := nameStart
	if j >= n || !mask[j] || !isIdentByte(text[j]) {
		return childEnvelope{}, false
	}
	nameBegin := j
	for j < n && mask[j] && isIdentByte(text[j]) {
		j++
	}
	name := text[nameBegin:j]
	j = skipSpaceMasked(text, mask, j)

	if j < n && mask[j] && text[j] == '<' {
		end := matchBalancedMasked(text, mask, j, '<', '>')
		if end < 0 {
			return childEnvelope{}, false
		}
		j = skipSpaceMasked(text, mask, end+1)
	}

	if j >= n || !mask[j] || text[j] != '(' {
		return childEnvelope{}, false
	}
	parenEnd := matchBalancedMasked(text, mask, j, '(', ')')
	if parenEnd < 0 {
		return childEnvelope{}, false
	}
	j = skipSpaceMasked(text, mask, parenEnd+1)

	if j >= n || !mask[j] || text[j] != '{' {
		return childEnvelope{}, false
	}
	close := matchBalancedMasked(text, mask, j, '{', '}')
	if close < 0 {
		return childEnvelope{}, false
	}

	return childEnvelope{
		headerStart:  headerStart,
		transformEnd: headerStart,
		name:         name,
		bodyOpen:     j,
		bodyClose:    close,
	}, true
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipSpaceMasked(text string, mask []bool, i int) int {
	for i < len(text) && mask[i] && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}

func matchKeyword(text string, mask []bool, i int, kw string) bool {
	if i+len(kw) > len(text) {
		return false
	}
	for k := 0; k < len(kw); k++ {
		if !mask[i+k] || text[i+k] != kw[k] {
			return false
		}
	}
	end := i + len(kw)
	if end < len(text) && mask[end] && isIdentByte(text[end]) {
		return false
	}
	if i > 0 && mask[i-1] && isIdentByte(text[i-1]) {
		return false
	}
	return true
}

func matchBalancedMasked(text string, mask []bool, pos int, open, closeR byte) int {
	depth := 0
	for i := pos; i < len(text); i++ {
		if !mask[i] {
			continue
		}
		switch text[i] {
		case open:
			depth++
		case closeR:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// extractFilterNames returns the registry-known filter names found inside
// a `[...]` transform-list text (brackets included in listText).
func extractFilterNames(listText string) []string {
	inner := strings.TrimSpace(listText)
	inner = strings.TrimPrefix(inner, "[")
	inner = strings.TrimSuffix(inner, "]")
	var names []string
	for _, part := range strings.Split(inner, ",") {
		name := strings.TrimSpace(part)
		if idx := strings.IndexAny(name, "<( "); idx >= 0 {
			name = name[:idx]
		}
		if registry.IsTextFilterName(name) {
			names = append(names, name)
		}
	}
	return names
}

func leadingTransformList(text string, mask []bool, headerStart int) string {
	i := headerStart
	if i >= len(text) || !mask[i] || text[i] != '[' {
		return ""
	}
	end := matchBalancedMasked(text, mask, i, '[', ']')
	if end < 0 {
		return ""
	}
	return text[i : end+1]
}

func processEnvelope(text string, pathPrefix string, inherited []string, rules []transformrule.Rule) (string, error) {
	children, err := findChildEnvelopes(text)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	cursor := 0
	mask, err := codeMask(text)
	if err != nil {
		return "", err
	}

	for _, child := range children {
		before, err := applyFilterList(text[cursor:child.headerStart], inherited)
		if err != nil {
			return "", err
		}
		sb.WriteString(before)

		leading := leadingTransformList(text, mask, child.headerStart)
		explicit := extractFilterNames(leading)
		path := pathPrefix + "/" + child.name

		var active []string
		switch {
		case len(explicit) > 0:
			active = explicit
		default:
			if ruleFilters := transformrule.SelectTransforms(rules, path); ruleFilters != nil {
				active = filterKnownNames(ruleFilters)
			} else {
				active = inherited
			}
		}

		header, err := applyFilterList(text[child.headerStart:child.bodyOpen+1], active)
		if err != nil {
			return "", err
		}
		sb.WriteString(header)

		bodyInner := text[child.bodyOpen+1 : child.bodyClose]
		recursed, err := processEnvelope(bodyInner, path, active, rules)
		if err != nil {
			return "", err
		}
		sb.WriteString(recursed)
		sb.WriteString("}")

		cursor = child.bodyClose + 1
	}

	trailing, err := applyFilterList(text[cursor:], inherited)
	if err != nil {
		return "", err
	}
	sb.WriteString(trailing)

	return sb.String(), nil
}

func filterKnownNames(names []string) []string {
	var out []string
	for _, n := range names {
		if registry.IsTextFilterName(n) {
			out = append(out, n)
		}
	}
	return out
}

// applyFilterList runs each active filter, in order, over text once.
// `append_operators` materializes `operators` into the active set — but
// only once, per the single-round-recursion design note — if it is not
// already present.
func applyFilterList(text string, filters []string) (string, error) {
	active := append([]string(nil), filters...)
	hasAppendOperators := false
	hasOperators := false
	for _, f := range active {
		if f == "append_operators" {
			hasAppendOperators = true
		}
		if f == "operators" {
			hasOperators = true
		}
	}
	if hasAppendOperators && !hasOperators {
		active = append(active, "operators")
	}

	out := text
	applied := map[string]bool{}
	for _, f := range active {
		if applied[f] {
			continue
		}
		applied[f] = true
		var err error
		switch f {
		case "collections":
			out, err = applyCollections(out)
		case "operators":
			out, err = applyOperators(out)
		case "implicit-i32":
			out, err = applyImplicitI32(out)
		case "implicit-utf8":
			out, err = applyImplicitUtf8(out)
		case "append_operators":
			// Handled above by materializing `operators`; no text effect
			// of its own.
		}
		if err != nil {
			if fe, ok := err.(*FilterError); ok && fe.Filter == "" {
				fe.Filter = f
			}
			return "", err
		}
	}
	return out, nil
}
