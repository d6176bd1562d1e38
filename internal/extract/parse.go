package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/synclab/postsync/pkg/routes"
)

// schemaExcerptCap bounds the raw schema text kept on a descriptor.
const schemaExcerptCap = 200

// authHookName marks a route as protected when it appears in a
// preHandler or onRequest property.
const authHookName = "authVerifyHook"

var (
	identRe    = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	funcExprRe = regexp.MustCompile(`^(?:async\s+)?function\b\s*\*?\s*([A-Za-z_$][\w$]*)?`)
)

// lineOf converts a byte offset to a 1-based line number.
func lineOf(src string, off int) int {
	return 1 + strings.Count(src[:off], "\n")
}

// span returns the text between balanced delimiters opening at src[open]
// and the offset just past the closing delimiter. String literals are
// honored; comments are not.
func span(src string, open int, oc, cc byte) (inner string, end int, ok bool) {
	depth := 0
	var quote byte
	for i := open; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case oc:
			depth++
		case cc:
			depth--
			if depth == 0 {
				return src[open+1 : i], i + 1, true
			}
		}
	}
	return "", 0, false
}

func parenSpan(src string, open int) (string, int, bool) {
	return span(src, open, '(', ')')
}

// objectInner returns the body of an object literal when the trimmed
// text starts with one. Trailing text after the closing brace (casts,
// satisfies clauses) is ignored.
func objectInner(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] != '{' {
		return "", false
	}
	inner, _, ok := span(s, 0, '{', '}')
	return inner, ok
}

// splitArgs splits a call's argument text on top-level commas.
func splitArgs(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// stringLiteral unquotes a single-token string literal.
func stringLiteral(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if q != '\'' && q != '"' && q != '`' {
		return "", false
	}
	if s[len(s)-1] != q {
		return "", false
	}
	return s[1 : len(s)-1], true
}

func isBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ',', '{', ';':
		return true
	}
	return false
}

// topLevelEnd returns the offset of the first top-level comma at or
// after from, or len(body).
func topLevelEnd(body string, from int) int {
	depth := 0
	var quote byte
	for i := from; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return len(body)
}

// propertyValue returns the value text of a top-level name: property in
// an object literal body. Quoted keys are not matched.
func propertyValue(body, name string) (string, bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		default:
			if depth != 0 || c != name[0] || !strings.HasPrefix(body[i:], name) {
				continue
			}
			if i > 0 && !isBoundary(body[i-1]) {
				continue
			}
			j := i + len(name)
			for j < len(body) && (body[j] == ' ' || body[j] == '\t' || body[j] == '\n' || body[j] == '\r') {
				j++
			}
			if j >= len(body) || body[j] != ':' {
				continue
			}
			start := j + 1
			return strings.TrimSpace(body[start:topLevelEnd(body, start)]), true
		}
	}
	return "", false
}

func schemaExcerpt(v string) *routes.SchemaObject {
	v = strings.TrimSpace(v)
	if len(v) > schemaExcerptCap {
		v = v[:schemaExcerptCap]
	}
	return &routes.SchemaObject{Type: "object", Raw: v}
}

// parseSchema reads the schema property of a route's options object.
// The schema key alone is enough for a non-nil result; body,
// querystring and response are filled in when declared.
func parseSchema(opts string) *routes.Schema {
	v, ok := propertyValue(opts, "schema")
	if !ok {
		return nil
	}
	s := &routes.Schema{}
	body, ok := objectInner(v)
	if !ok {
		return s
	}
	if b, ok := propertyValue(body, "body"); ok {
		s.Body = schemaExcerpt(b)
	}
	if q, ok := propertyValue(body, "querystring"); ok {
		s.Query = schemaExcerpt(q)
	}
	if r, ok := propertyValue(body, "response"); ok {
		s.Response = parseResponse(r)
	}
	return s
}

// parseResponse reads response schemas keyed by 3-digit status codes.
func parseResponse(v string) map[int]*routes.SchemaObject {
	body, ok := objectInner(v)
	if !ok {
		return nil
	}
	out := make(map[int]*routes.SchemaObject)
	depth := 0
	var quote byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		default:
			if depth != 0 || c < '0' || c > '9' {
				continue
			}
			if i > 0 && !isBoundary(body[i-1]) {
				continue
			}
			if i+3 > len(body) || !isDigits(body[i:i+3]) {
				continue
			}
			j := i + 3
			for j < len(body) && (body[j] == ' ' || body[j] == '\t' || body[j] == '\n' || body[j] == '\r') {
				j++
			}
			if j >= len(body) || body[j] != ':' {
				continue
			}
			status, err := strconv.Atoi(body[i : i+3])
			if err != nil {
				continue
			}
			start := j + 1
			out[status] = schemaExcerpt(body[start:topLevelEnd(body, start)])
		}
	}
	return out
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseRateLimit reads config.rateLimit from a route's options object.
// Both max and timeWindow must be present for a limit to be recorded.
func parseRateLimit(opts string) *routes.RateLimit {
	cv, ok := propertyValue(opts, "config")
	if !ok {
		return nil
	}
	cb, ok := objectInner(cv)
	if !ok {
		return nil
	}
	rv, ok := propertyValue(cb, "rateLimit")
	if !ok {
		return nil
	}
	rb, ok := objectInner(rv)
	if !ok {
		return nil
	}
	mv, ok := propertyValue(rb, "max")
	if !ok {
		return nil
	}
	tv, ok := propertyValue(rb, "timeWindow")
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(mv)
	if err != nil {
		return nil
	}
	window, ok := stringLiteral(tv)
	if !ok {
		return nil
	}
	return &routes.RateLimit{Max: n, TimeWindow: window}
}

// hasAuthHook reports whether a lifecycle hook property references the
// auth verification hook.
func hasAuthHook(opts string) bool {
	for _, key := range []string{"preHandler", "onRequest"} {
		if v, ok := propertyValue(opts, key); ok && strings.Contains(v, authHookName) {
			return true
		}
	}
	return false
}

// handlerName names the handler argument: a plain identifier is used
// as-is, function expressions use their name when they have one, arrow
// functions are "anonymous".
func handlerName(arg string) string {
	arg = strings.TrimSpace(arg)
	if identRe.MatchString(arg) {
		return arg
	}
	if m := funcExprRe.FindStringSubmatch(arg); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return "handler"
	}
	if strings.Contains(arg, "=>") {
		return "anonymous"
	}
	return "handler"
}

// jsdocAbove collects the JSDoc block immediately above the line at
// index idx, with line comments and blank lines between them tolerated.
// Block lines are stripped of the comment markers and joined with
// single spaces.
func jsdocAbove(lines []string, idx int) string {
	prev := idx - 1
	for prev >= 0 {
		line := strings.TrimSpace(lines[prev])
		if line == "" || strings.HasPrefix(line, "//") {
			prev--
			continue
		}
		break
	}
	if prev < 0 {
		return ""
	}

	// The nearest code-adjacent line must close a JSDoc block.
	last := strings.TrimSpace(lines[prev])
	closes := strings.HasSuffix(last, "*/") &&
		(strings.HasPrefix(last, "*") || strings.HasPrefix(last, "/**"))
	if !closes {
		return ""
	}
	start := prev
	for start >= 0 && !strings.HasPrefix(strings.TrimSpace(lines[start]), "/**") {
		start--
	}
	if start < 0 {
		return ""
	}

	var parts []string
	for i := start; i <= prev; i++ {
		l := strings.TrimSpace(lines[i])
		l = strings.TrimPrefix(l, "/**")
		l = strings.TrimSuffix(l, "*/")
		if clean := strings.TrimSpace(strings.TrimLeft(l, "*")); clean != "" {
			parts = append(parts, clean)
		}
	}
	return strings.Join(parts, " ")
}
