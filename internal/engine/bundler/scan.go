package bundler

import (
	"regexp"
	"strconv"
	"strings"
)

// requirePattern matches require calls whose single argument is a string literal.
// Template literals and computed arguments are not recognized.
var requirePattern = regexp.MustCompile(`\brequire\s*\(\s*(?:'((?:[^'\\\n]|\\(?s:.))*)'|"((?:[^"\\\n]|\\(?s:.))*)")\s*\)`)

// ScanRequires returns the distinct specifiers required by source in order of first appearance.
// Matches inside comments and strings are reported as well.
func ScanRequires(source string) []string {
	matches := requirePattern.FindAllStringSubmatch(source, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	specs := make([]string, 0, len(matches))
	for _, m := range matches {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		spec := unescape(raw)
		if seen[spec] {
			continue
		}
		seen[spec] = true
		specs = append(specs, spec)
	}
	return specs
}

// unescape decodes JavaScript string escapes. Unknown escapes yield the escaped character.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := parseHex(s, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteByte(e)
			}
		case 'u':
			r, n := parseUnicode(s, i+1)
			if n == 0 {
				sb.WriteByte(e)
				continue
			}
			sb.WriteRune(r)
			i += n
		default:
			sb.WriteByte(e)
		}
	}
	return sb.String()
}

// parseUnicode decodes the digits of a \u escape starting at s[at].
// It returns the rune and the number of bytes consumed, or zero bytes when malformed.
func parseUnicode(s string, at int) (rune, int) {
	if at < len(s) && s[at] == '{' {
		end := strings.IndexByte(s[at:], '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(s[at+1:at+end], 16, 32)
		if err != nil || v > 0x10FFFF {
			return 0, 0
		}
		return rune(v), end + 1
	}
	r, ok := parseHex(s, at, 4)
	if !ok {
		return 0, 0
	}
	return r, 4
}

func parseHex(s string, at, n int) (rune, bool) {
	if at+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[at:at+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
