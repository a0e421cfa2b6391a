// Package fixture implements the line-based "key=value" fixture text format
// spec §6 describes: a mandatory header line, "#" comments, and
// unsigned/signed/decimal-Q16.16/symbolic-name values. Parsing is a pure
// byte-cursor pass in the teacher's parse.go style (consensus/parse.go),
// adapted from binary framing to line-oriented text.
package fixture

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/Julesc013/dominium-sub020/internal/detid"
	"github.com/Julesc013/dominium-sub020/internal/fx"
)

// ParseError reports a fixture rejection with the offending line number.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fixture:%d: %s", e.Line, e.Msg)
}

// Fixture is a parsed key=value document: an ordered header and a map of
// raw string values keyed by their literal fixture key.
type Fixture struct {
	Header string
	Values map[string]string
	// Order preserves first-seen key order for canonical re-emission.
	Order []string
}

// Parse reads a fixture document, rejecting any document whose first
// non-blank, non-comment line is not exactly wantHeader, and any unknown...
// (callers decide "unknown"; Parse itself only enforces header + syntax).
func Parse(text string, wantHeader string) (*Fixture, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	f := &Fixture{Values: make(map[string]string)}
	headerSeen := false

	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !headerSeen {
			if trimmed != wantHeader {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected header %q, got %q", wantHeader, trimmed)}
			}
			f.Header = trimmed
			headerSeen = true
			continue
		}
		eq := strings.IndexByte(trimmed, '=')
		if eq < 0 {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("malformed line %q: missing '='", trimmed)}
		}
		key := strings.TrimSpace(trimmed[:eq])
		val := strings.TrimSpace(trimmed[eq+1:])
		if key == "" {
			return nil, &ParseError{Line: lineNo, Msg: "empty key"}
		}
		if _, dup := f.Values[key]; !dup {
			f.Order = append(f.Order, key)
		}
		f.Values[key] = val
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !headerSeen {
		return nil, &ParseError{Line: lineNo, Msg: "empty fixture: no header line"}
	}
	return f, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// RejectUnknownKeys hard-errors if any key in f is not present in allowed,
// per spec §6 ("Unknown keys are a hard error").
func (f *Fixture) RejectUnknownKeys(allowed func(key string) bool) error {
	for _, k := range f.Order {
		if !allowed(k) {
			return fmt.Errorf("fixture: unknown key %q", k)
		}
	}
	return nil
}

// ParseUint parses an unsigned integer value (base-prefixed 0x/0 or
// decimal).
func ParseUint(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}

// ParseInt parses a signed integer value.
func ParseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 0, 64)
}

// ParseSymbolic hashes a symbolic name into a stable 32-bit ID.
func ParseSymbolic(s string) uint32 {
	return detid.H32(s)
}

// ParseRef parses a cross-entity reference: a bare unsigned integer if s is
// numeric, otherwise the deterministic symbolic hash of s. This is the
// fallback spec §3.2 describes for symbolic IDs and mirrors the original
// fixture tool's conflict_parse_ref.
func ParseRef(s string) uint32 {
	if u, err := ParseUint(s); err == nil {
		return uint32(u)
	}
	return ParseSymbolic(s)
}

// ParseIndexedKey splits a fixture key of the form "<prefix><index>_<suffix>"
// into its numeric index and remaining suffix, per spec §6's indexed-key
// fixture grammar (e.g. "side3_readiness" with prefix "side" yields index 3,
// suffix "readiness"). Mirrors the original fixture tool's
// conflict_parse_indexed_key, recursively applicable for nested suffixes.
func ParseIndexedKey(key, prefix string) (index uint32, suffix string, ok bool) {
	if !strings.HasPrefix(key, prefix) {
		return 0, "", false
	}
	rest := key[len(prefix):]
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(rest) || rest[digits] != '_' {
		return 0, "", false
	}
	n, err := strconv.ParseUint(rest[:digits], 10, 32)
	if err != nil {
		return 0, "", false
	}
	return uint32(n), rest[digits+1:], true
}

// ParseQ16Decimal parses a decimal string into Q16.16 by exact
// multiplication by 0x10000 followed by banker's rounding (round-half-to-
// even), per spec §6.
func ParseQ16Decimal(s string) (fx.Q16, error) {
	neg := false
	trimmed := s
	if strings.HasPrefix(trimmed, "-") {
		neg = true
		trimmed = trimmed[1:]
	} else if strings.HasPrefix(trimmed, "+") {
		trimmed = trimmed[1:]
	}

	intPart := trimmed
	fracPart := ""
	if dot := strings.IndexByte(trimmed, '.'); dot >= 0 {
		intPart = trimmed[:dot]
		fracPart = trimmed[dot+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	whole, err := strconv.ParseUint(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("fixture: invalid decimal %q: %w", s, err)
	}

	// Scale the fractional digits to a numerator/denominator pair, then
	// compute round((frac_num * 0x10000) / frac_den) with banker's
	// rounding, exactly as "exact multiplication by 0x10000, then rounded
	// with banker's rounding" requires.
	var fracQ uint64
	if fracPart != "" {
		fracNum, err := strconv.ParseUint(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("fixture: invalid decimal %q: %w", s, err)
		}
		fracDen := pow10(uint64(len(fracPart)))
		num := fracNum * 0x10000
		fracQ = bankersDivRound(num, fracDen)
	}

	total := whole<<16 + fracQ
	v := fx.Q16(int64(total))
	if neg {
		v = -v
	}
	return v, nil
}

func pow10(n uint64) uint64 {
	v := uint64(1)
	for i := uint64(0); i < n; i++ {
		v *= 10
	}
	return v
}

// bankersDivRound computes round(num/den) with round-half-to-even.
func bankersDivRound(num, den uint64) uint64 {
	q := num / den
	r := num % den
	twice := r * 2
	switch {
	case twice < den:
		return q
	case twice > den:
		return q + 1
	default: // exactly halfway: round to even
		if q%2 == 0 {
			return q
		}
		return q + 1
	}
}
