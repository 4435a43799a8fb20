package translate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/vk/macroport/internal/source"
)

// DefaultRadix is the legacy assembler's radix before any RADIX line.
const DefaultRadix = 8

// action tells the rewriter what to do after a rule ran.
type action int

const (
	// next hands the (possibly modified) line to the following rule.
	next action = iota
	// emit writes the line and stops.
	emit
	// drop removes the line and stops.
	drop
)

// rewriteRule is one entry of the ordered instruction table; the first
// rule that emits or drops wins.
type rewriteRule struct {
	name  string
	apply func(rw *rewriter, l source.Line) (string, action, error)
}

// rewriter carries the per-run radix through the instruction stage.
type rewriter struct {
	*run
	radix int
}

var (
	radixRegex      = regexp.MustCompile(`^RADIX\s(\d+)`)
	orgRegex        = regexp.MustCompile(`^\s*ORG\s(\S+)`)
	octalTokenRegex = regexp.MustCompile(`\^O(\d+)`)
	adrRegex        = regexp.MustCompile(`^ADR\t*\((\S+)\)$`)
	blockRegex      = regexp.MustCompile(`^BLOCK\s+(.*)$`)
	decimalRegex    = regexp.MustCompile(`^(\d+)$`)
	hexRegex        = regexp.MustCompile(`^\$([0-9A-F]+)$`)
	expRegex        = regexp.MustCompile(`^EXP\s+(.*)$`)
	mnemonicRegex   = regexp.MustCompile(`^([A-Z]+)\s+(.*)$`)
	digitsRegex     = regexp.MustCompile(`^\d+$`)
)

var rewriteRules = []rewriteRule{
	{name: "radix", apply: (*rewriter).radixLine},
	{name: "org", apply: func(_ *rewriter, l source.Line) (string, action, error) {
		if orgRegex.MatchString(l.Instruction) {
			return "", drop, nil
		}
		return l.Raw, next, nil
	}},
	{name: "octal", apply: (*rewriter).octalTokens},
	{name: "adr", apply: func(_ *rewriter, l source.Line) (string, action, error) {
		if m := adrRegex.FindStringSubmatch(l.Instruction); m != nil {
			return l.With(".WORD " + m[1]), emit, nil
		}
		return l.Raw, next, nil
	}},
	{name: "block", apply: func(_ *rewriter, l source.Line) (string, action, error) {
		if m := blockRegex.FindStringSubmatch(l.Instruction); m != nil && !strings.Contains(l.Raw, "BLOCK TRANSFER") {
			return l.With(".RES " + m[1]), emit, nil
		}
		return l.Raw, next, nil
	}},
	{name: "decimal", apply: (*rewriter).numeralByte},
	{name: "hex", apply: func(_ *rewriter, l source.Line) (string, action, error) {
		m := hexRegex.FindStringSubmatch(l.Instruction)
		if m == nil {
			return l.Raw, next, nil
		}
		n, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return "", emit, fmt.Errorf("%w: %q: %v", ErrInvalidNumeral, l.Instruction, err)
		}
		return l.With(".BYTE " + strconv.FormatUint(n, 10)), emit, nil
	}},
	{name: "exp", apply: func(_ *rewriter, l source.Line) (string, action, error) {
		if m := expRegex.FindStringSubmatch(l.Instruction); m != nil {
			return l.With(".BYTE " + m[1]), emit, nil
		}
		return l.Raw, next, nil
	}},
	{name: "octal-data", apply: func(rw *rewriter, l source.Line) (string, action, error) {
		if rw.radix != 8 {
			return l.Raw, next, nil
		}
		if expr, ok := rw.tables.OctalDataExpressions[l.Instruction]; ok {
			return l.With(".BYTE " + expr), emit, nil
		}
		return l.Raw, next, nil
	}},
	{name: "symbol", apply: func(rw *rewriter, l source.Line) (string, action, error) {
		if rw.symbols.Has(l.Instruction) {
			return l.With(".BYTE " + l.Instruction), emit, nil
		}
		return l.Raw, next, nil
	}},
	{name: "mnemonic", apply: (*rewriter).mnemonic},
}

// instructions rewrites numerals, data pseudo-ops and suffixed
// addressing-mode mnemonics line by line.
func (r *run) instructions(_ context.Context, q *source.Queue) ([]string, error) {
	radix := r.tables.DefaultRadix
	if radix == 0 {
		radix = DefaultRadix
	}
	rw := &rewriter{run: r, radix: radix}

	var out []string
	for !q.Empty() {
		line, _ := q.Next()
		rewritten, keep, err := rw.rewrite(line)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", line, err)
		}
		if keep {
			out = append(out, rewritten)
		}
	}
	return out, nil
}

// rewrite runs line through the rule table.
func (rw *rewriter) rewrite(line string) (string, bool, error) {
	for _, rule := range rewriteRules {
		result, act, err := rule.apply(rw, source.Split(line))
		if err != nil {
			return "", false, fmt.Errorf("%s: %w", rule.name, err)
		}
		switch act {
		case drop:
			return "", false, nil
		case emit:
			return result, true, nil
		}
		line = result
	}
	return line, true, nil
}

func (rw *rewriter) radixLine(l source.Line) (string, action, error) {
	m := radixRegex.FindStringSubmatch(l.Instruction)
	if m == nil {
		return l.Raw, next, nil
	}
	radix, err := strconv.Atoi(m[1])
	if err != nil || radix < 2 || radix > 36 {
		return "", drop, fmt.Errorf("%w: radix %q", ErrInvalidNumeral, m[1])
	}
	rw.radix = radix
	return "", drop, nil
}

// octalTokens converts every ^O literal in the instruction to hex.
func (rw *rewriter) octalTokens(l source.Line) (string, action, error) {
	if !octalTokenRegex.MatchString(l.Instruction) {
		return l.Raw, next, nil
	}
	var convErr error
	instruction := octalTokenRegex.ReplaceAllStringFunc(l.Instruction, func(token string) string {
		hex, err := OctalToHex(token[2:])
		if err != nil && convErr == nil {
			convErr = err
		}
		return hex
	})
	if convErr != nil {
		return "", emit, convErr
	}
	return l.With(instruction), next, nil
}

// numeralByte turns a bare numeral in the active radix into a data byte.
func (rw *rewriter) numeralByte(l source.Line) (string, action, error) {
	m := decimalRegex.FindStringSubmatch(l.Instruction)
	if m == nil {
		return l.Raw, next, nil
	}
	n, err := strconv.ParseUint(m[1], rw.radix, 32)
	if err != nil {
		return "", emit, fmt.Errorf("%w: %q in radix %d", ErrInvalidNumeral, m[1], rw.radix)
	}
	return l.With(".BYTE " + strconv.FormatUint(n, 10)), emit, nil
}

// mnemonic rewrites the suffixed addressing-mode forms of the legacy
// dialect to target operand syntax.
func (rw *rewriter) mnemonic(l source.Line) (string, action, error) {
	m := mnemonicRegex.FindStringSubmatch(l.Instruction)
	if m == nil {
		return l.Raw, next, nil
	}
	mnemonic, arg := m[1], m[2]
	forms := rw.tables.Mnemonics
	if forms == nil {
		return l.Raw, next, nil
	}

	switch {
	case slices.Contains(forms.Immediate, mnemonic):
		if rw.radix == 8 && digitsRegex.MatchString(arg) {
			n, err := strconv.ParseUint(arg, 8, 16)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return "", emit, fmt.Errorf("%w: immediate %q", ErrInvalidNumeral, arg)
			}
			// Values wider than a byte are left as written.
			if err == nil && n <= 0xff {
				arg = fmt.Sprintf("$%02X", n)
			}
		}
		if expr, ok := rw.tables.OperandExpressions[arg]; ok {
			arg = expr
		}
		arg = strings.ReplaceAll(arg, `"`, "'")
		return l.With(mnemonic[:len(mnemonic)-1] + "\t#" + arg), emit, nil
	case slices.Contains(forms.IndirectIndexed, mnemonic):
		return l.With(mnemonic[:3] + "\t(" + arg + "),Y"), emit, nil
	case slices.Contains(forms.IndirectJump, mnemonic):
		return l.With(mnemonic[:3] + "\t(" + arg + ")"), emit, nil
	}
	return l.Raw, next, nil
}

// OctalToHex converts octal digits to a target hex literal: two digits
// when the value fits a byte, four otherwise.
func OctalToHex(digits string) (string, error) {
	n, err := strconv.ParseUint(digits, 8, 16)
	if err != nil {
		return "", fmt.Errorf("%w: octal %q: %v", ErrInvalidNumeral, digits, err)
	}
	if n > 0xff {
		return fmt.Sprintf("$%04X", n), nil
	}
	return fmt.Sprintf("$%02X", n), nil
}
