package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"quicksort/backend/app/fsutil"
	"quicksort/backend/app/models"

	"github.com/dustin/go-humanize"
)

// Matcher is a compiled rule pattern.
type Matcher interface {
	Match(f fsutil.FileInfo, now time.Time) bool
}

// CompileRule validates pattern for ruleType and returns its matcher.
//
// Grammar:
//
//	extension  ".pdf" | "pdf" | "jpg, .png"
//	keyword    any non-empty text
//	size       [op] amount        e.g. ">10MB", "<= 512KiB", "1GB"
//	date       [op] age | date    e.g. ">7d", "<12h", ">=2024-01-31"
//
// op is one of > >= < <= = == != and defaults to >=. Relative ages use the
// units m, h, d and w and compare against how long ago the file was modified.
// Absolute dates compare against the modification time itself.
func CompileRule(ruleType, pattern string) (Matcher, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidRule)
	}
	switch ruleType {
	case models.RuleTypeExtension:
		return compileExtension(pattern)
	case models.RuleTypeKeyword:
		return keywordMatcher{keyword: strings.ToLower(pattern)}, nil
	case models.RuleTypeSize:
		return compileSize(pattern)
	case models.RuleTypeDate:
		return compileDate(pattern)
	default:
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidRule, ruleType)
	}
}

// NormalizeExtension lower-cases ext and ensures a single leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

type extensionMatcher struct {
	exts map[string]struct{}
}

func compileExtension(pattern string) (Matcher, error) {
	m := extensionMatcher{exts: make(map[string]struct{})}
	for _, part := range strings.Split(pattern, ",") {
		if ext := NormalizeExtension(part); ext != "" {
			m.exts[ext] = struct{}{}
		}
	}
	if len(m.exts) == 0 {
		return nil, fmt.Errorf("%w: no extension in %q", ErrInvalidRule, pattern)
	}
	return m, nil
}

// Match compares by suffix so multi-dot extensions like ".tar.gz" work. The
// name must be longer than the extension, so ".pdf" alone never matches.
func (m extensionMatcher) Match(f fsutil.FileInfo, _ time.Time) bool {
	name := strings.ToLower(f.Name)
	for ext := range m.exts {
		if len(name) > len(ext) && strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

type keywordMatcher struct {
	keyword string
}

func (m keywordMatcher) Match(f fsutil.FileInfo, _ time.Time) bool {
	return strings.Contains(strings.ToLower(f.Stem()), m.keyword)
}

type compareOp string

const (
	opGT compareOp = ">"
	opGE compareOp = ">="
	opLT compareOp = "<"
	opLE compareOp = "<="
	opEQ compareOp = "="
	opNE compareOp = "!="
)

// splitOp peels a leading comparison operator off s.
func splitOp(s string) (compareOp, string) {
	s = strings.TrimSpace(s)
	for _, p := range []string{">=", "<=", "==", "!=", ">", "<", "="} {
		if strings.HasPrefix(s, p) {
			op := compareOp(p)
			if p == "==" {
				op = opEQ
			}
			return op, strings.TrimSpace(s[len(p):])
		}
	}
	return opGE, s
}

func compareInt(op compareOp, a, b int64) bool {
	switch op {
	case opGT:
		return a > b
	case opGE:
		return a >= b
	case opLT:
		return a < b
	case opLE:
		return a <= b
	case opEQ:
		return a == b
	case opNE:
		return a != b
	}
	return false
}

type sizeMatcher struct {
	op    compareOp
	bytes int64
}

func compileSize(pattern string) (Matcher, error) {
	op, rest := splitOp(pattern)
	if rest == "" {
		return nil, fmt.Errorf("%w: size %q has no amount", ErrInvalidRule, pattern)
	}
	n, err := humanize.ParseBytes(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: size %q: %v", ErrInvalidRule, pattern, err)
	}
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("%w: size %q is too large", ErrInvalidRule, pattern)
	}
	return sizeMatcher{op: op, bytes: int64(n)}, nil
}

func (m sizeMatcher) Match(f fsutil.FileInfo, _ time.Time) bool {
	return compareInt(m.op, f.Size, m.bytes)
}

type ageMatcher struct {
	op   compareOp
	age  time.Duration
	unit time.Duration
}

type dateMatcher struct {
	op compareOp
	at time.Time
}

func compileDate(pattern string) (Matcher, error) {
	op, rest := splitOp(pattern)
	if rest == "" {
		return nil, fmt.Errorf("%w: date %q has no value", ErrInvalidRule, pattern)
	}
	if age, unit, ok := parseAge(rest); ok {
		return ageMatcher{op: op, age: age, unit: unit}, nil
	}
	if t, err := time.Parse(time.RFC3339, rest); err == nil {
		return dateMatcher{op: op, at: t}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", rest, time.Local); err == nil {
		return dateMatcher{op: op, at: t}, nil
	}
	return nil, fmt.Errorf("%w: date %q (want e.g. >7d, <12h, >=2024-01-31)", ErrInvalidRule, pattern)
}

// parseAge accepts "30m", "12h", "7d", "2w" and fractional amounts like "1.5d".
// It also returns the unit the amount was written in.
func parseAge(s string) (time.Duration, time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, 0, false
	}
	var unit time.Duration
	switch s[len(s)-1] {
	case 'm':
		unit = time.Minute
	case 'h':
		unit = time.Hour
	case 'd':
		unit = 24 * time.Hour
	case 'w':
		unit = 7 * 24 * time.Hour
	default:
		return 0, 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s[:len(s)-1]), 64)
	if err != nil || n < 0 || n*float64(unit) > math.MaxInt64 {
		return 0, 0, false
	}
	return time.Duration(n * float64(unit)), unit, true
}

// Match compares elapsed time exactly for ordering operators. Equality is
// checked in whole units, so "=7d" means modified seven days ago.
func (m ageMatcher) Match(f fsutil.FileInfo, now time.Time) bool {
	elapsed := now.Sub(f.ModTime)
	switch m.op {
	case opEQ, opNE:
		return compareInt(m.op, int64(elapsed/m.unit), int64(m.age/m.unit))
	default:
		return compareInt(m.op, int64(elapsed), int64(m.age))
	}
}

func (m dateMatcher) Match(f fsutil.FileInfo, _ time.Time) bool {
	switch m.op {
	case opEQ, opNE:
		y1, m1, d1 := f.ModTime.In(m.at.Location()).Date()
		y2, m2, d2 := m.at.Date()
		same := y1 == y2 && m1 == m2 && d1 == d2
		return same == (m.op == opEQ)
	default:
		return compareInt(m.op, f.ModTime.UnixNano(), m.at.UnixNano())
	}
}
