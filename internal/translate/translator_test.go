package translate

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/macroport/internal/config"
	"github.com/vk/macroport/internal/source"
	"github.com/vk/macroport/internal/symbols"
	"github.com/zclconf/go-cty/cty"
)

func lines(text string) []string {
	return strings.Split(strings.TrimPrefix(text, "\n"), "\n")
}

func testTables() *config.Translation {
	return &config.Translation{
		DefaultRadix:       8,
		BracketExpressions: []string{"<BUF+BUFLEN>"},
		Patches: []*config.Patch{
			{Name: "drop-purge", Search: []string{"\tPURGE\tX", "\tPURGE\tY"}, Replace: nil},
		},
		NegatedConditions: map[string]string{
			"<<BUF+BUFLEN>/256>-<<BUF-1>/256>": "BUFPAG<>0",
		},
		ConfigReport: []string{`.OUT .SPRINTF("CONFIG: REALIO=%d", REALIO)`},
		Macros: map[string][]string{
			"LDWD (WD)": {".MACRO LDWD WD", "\tLDA\tWD", "\tLDY\tWD+1", ".ENDMACRO"},
		},
		AssignableSymbols: []string{"ROMLOC", "ADDPRC"},
		Mnemonics: &config.Mnemonics{
			Immediate:       []string{"LDAI", "CMPI"},
			IndirectIndexed: []string{"LDADY", "STADY"},
			IndirectJump:    []string{"JMPD"},
		},
		OperandExpressions:   map[string]string{`"A"-"@"`: "'A'-'@'+$00"},
		OctalDataExpressions: map[string]string{"333-ADDPRC": "219-ADDPRC"},
	}
}

func newRun(tables *config.Translation) *run {
	r := &run{
		Translator: New(tables, 0),
		symbols:    symbols.New(symbols.KeepLast),
		assignable: map[string]struct{}{},
	}
	for _, name := range tables.AssignableSymbols {
		r.assignable[name] = struct{}{}
	}
	return r
}

type stageFunc func(ctx context.Context, q *source.Queue) ([]string, error)

func runStage(t *testing.T, fn stageFunc, input []string) []string {
	t.Helper()
	out, err := fn(context.Background(), source.NewQueue(input))
	require.NoError(t, err)
	return out
}

func TestClean(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "comment block",
			input: []string{"COMMENT *", "ANY TEXT, A, B", "END *", "\tLDA\tX,"},
			want:  []string{"/*", "ANY TEXT, A, B", "*/", "\tLDA\tX"},
		},
		{
			name:  "title and subtitle",
			input: []string{"TITLE\tBASIC", "\fSUBTTL\tSTART"},
			want:  []string{"; TITLE\tBASIC", "; SUBTTL\tSTART"},
		},
		{
			name:  "labelled conditional is split",
			input: []string{"INIT:\tIFN\tROMSW,<"},
			want:  []string{"INIT:", "IFN\tROMSW,<"},
		},
		{
			name:  "register comma keeps the comment",
			input: []string{"\tASL\tA,\t;SHIFT, TWICE"},
			want:  []string{"\tASL\tA\t;SHIFT, TWICE"},
		},
		{
			name:  "bracket expression",
			input: []string{"\tLDAI\t<BUF+BUFLEN>/256"},
			want:  []string{"\tLDAI\t(BUF+BUFLEN)/256"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRun(testTables())
			assert.Equal(t, tc.want, runStage(t, r.clean, tc.input))
		})
	}
}

func TestApplyPatch(t *testing.T) {
	p := &config.Patch{Search: []string{"B", "C"}, Replace: []string{"X"}}
	out, hits := ApplyPatch([]string{"A", "B", "C", "B", "C", "D", "B"}, p)
	assert.Equal(t, []string{"A", "X", "X", "D", "B"}, out)
	assert.Equal(t, 2, hits)

	out, hits = ApplyPatch([]string{"A"}, &config.Patch{})
	assert.Equal(t, []string{"A"}, out)
	assert.Zero(t, hits)
}

func TestConditionFor(t *testing.T) {
	testCases := []struct {
		expr  string
		equal bool
		want  string
	}{
		{expr: "REALIO", equal: true, want: "REALIO=0"},
		{expr: "REALIO-3", equal: true, want: "REALIO=3"},
		{expr: "REALIO-3", equal: false, want: "REALIO<>3"},
		{expr: "STKEND-511", equal: false, want: "STKEND<>511"},
		{expr: "ROMSW", equal: false, want: "ROMSW<>0"},
		{expr: "DISKO!EXTIO", equal: true, want: "(DISKO|EXTIO)=0"},
		{expr: "<<BUF+BUFLEN>/256>-<<BUF-1>/256>", equal: false, want: "BUFPAG<>0"},
	}

	r := newRun(testTables())
	for _, tc := range testCases {
		t.Run(tc.expr+"/"+strconv.FormatBool(tc.equal), func(t *testing.T) {
			got, err := r.conditionFor(tc.expr, tc.equal)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("literal table is negated only", func(t *testing.T) {
		_, err := r.conditionFor("<<BUF+BUFLEN>/256>-<<BUF-1>/256>", true)
		require.ErrorIs(t, err, ErrUnsupportedExpression)
	})
	t.Run("arbitrary arithmetic", func(t *testing.T) {
		_, err := r.conditionFor("A*2", false)
		require.ErrorIs(t, err, ErrUnsupportedExpression)
	})
}

func TestConditionals(t *testing.T) {
	input := lines(`
IFE	REALIO-3,<
	LDA	#0
IFN	DISKO,<	JSR	SAVE>
>
IFN	REALIO-3,<	TAX>			;GET INTO ACCX
IF1,<
	PRINTX	/CONFIG/>
IF2,<
	PURGE	X>
IF2,<
	EXTRA>
	RTS`)

	want := lines(`
.IF REALIO=3
	LDA	#0
.IF DISKO<>0
	JSR	SAVE
.ENDIF
.ENDIF
.IF REALIO<>3
	TAX			;GET INTO ACCX
.ENDIF
.OUT .SPRINTF("CONFIG: REALIO=%d", REALIO)
	EXTRA
	RTS`)

	r := newRun(testTables())
	got := runStage(t, r.conditionals, input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("conditionals mismatch (-want +got):\n%s", diff)
	}
}

func TestConditionals_Errors(t *testing.T) {
	r := newRun(testTables())

	_, err := r.conditionals(context.Background(), source.NewQueue([]string{"IFE\tA*2,<", "X>"}))
	require.ErrorIs(t, err, ErrUnsupportedExpression)

	_, err = r.conditionals(context.Background(), source.NewQueue([]string{"IFE\tREALIO,<", "X"}))
	require.ErrorIs(t, err, source.ErrUnterminatedBlock)
}

func TestMacros(t *testing.T) {
	r := newRun(testTables())
	got := runStage(t, r.macros, []string{"DEFINE\tLDWD\t(WD),<", "\tLDA\tWD", "\tLDY\tWD+1>", "\tRTS"})
	assert.Equal(t, []string{".MACRO LDWD WD", "\tLDA\tWD", "\tLDY\tWD+1", ".ENDMACRO", "", "\tRTS"}, got)

	_, err := r.macros(context.Background(), source.NewQueue([]string{"DEFINE\tNEWONE (X),<", "\tNOP>"}))
	require.ErrorIs(t, err, ErrUnknownMacro)
	assert.Contains(t, err.Error(), `"NEWONE (X)"`)
}

func TestAssignments(t *testing.T) {
	r := newRun(testTables())
	got := runStage(t, r.assignments, []string{
		"ROMLOC= ^O20000\t\t;ADDRESS",
		"LINLEN==^O110",
		"ADDPRC=1",
		"START:\tQ=Q+1",
		"\tLDA\tX",
	})
	assert.Equal(t, []string{
		"ROMLOC .SET $2000\t\t;ADDRESS",
		"LINLEN=$0048",
		"ADDPRC .SET 1",
		"Q=Q+1",
		"\tLDA\tX",
	}, got)

	v, ok := r.symbols.Text("ROMLOC")
	require.True(t, ok)
	assert.Equal(t, "$2000", v)
	n, ok := r.symbols.Int("ADDPRC")
	require.True(t, ok)
	assert.EqualValues(t, 1, n)

	_, err := r.assignments(context.Background(), source.NewQueue([]string{"BAD=^O19"}))
	require.ErrorIs(t, err, ErrInvalidNumeral)
}

func TestRepeats(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "three copies keep indentation",
			input: []string{"  REPEAT 3,<ASL A>"},
			want:  []string{"  ASL A", "  ASL A", "  ASL A"},
		},
		{
			name:  "sum with known symbol",
			input: []string{"\tREPEAT\t3+ADDPRC,<\tSTA\tFAC>"},
			want:  []string{"\t\tSTA\tFAC", "\t\tSTA\tFAC", "\t\tSTA\tFAC", "\t\tSTA\tFAC"},
		},
		{
			name:  "second line of a multi-line template",
			input: []string{"REPEAT 2,<", "FIRST", "SECOND>"},
			want:  []string{"SECOND", "SECOND"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRun(testTables())
			r.symbols.Define("ADDPRC", cty.StringVal("1"))
			assert.Equal(t, tc.want, runStage(t, r.repeats, tc.input))
		})
	}
}

func TestRepeats_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
	}{
		{name: "unsupported expression", input: []string{"REPEAT N*2,<NOP>"}},
		{name: "unknown symbol", input: []string{"REPEAT 3+ADDPRC,<NOP>"}},
		{name: "empty template", input: []string{"REPEAT 2,<>"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRun(testTables())
			_, err := r.repeats(context.Background(), source.NewQueue(tc.input))
			require.ErrorIs(t, err, ErrUnsupportedRepeat)
		})
	}
}

func TestInstructions(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "radix and org are dropped", input: []string{"RADIX\t10", "\tORG\t0", "\t12"}, want: []string{"\t.BYTE 12"}},
		{name: "octal numeral in default radix", input: []string{"\t12\t;TEN"}, want: []string{"\t.BYTE 10\t;TEN"}},
		{name: "octal token byte", input: []string{"\tLDA\t^O77"}, want: []string{"\tLDA\t$3F"}},
		{name: "octal token word", input: []string{"\tJMP\t^O20000+^O1"}, want: []string{"\tJMP\t$2000+$01"}},
		{name: "adr", input: []string{"STMDSP:\tADR(END-1)"}, want: []string{"STMDSP:\t.WORD END-1"}},
		{name: "block", input: []string{"BUF:\tBLOCK\tBUFLEN"}, want: []string{"BUF:\t.RES BUFLEN"}},
		{name: "block transfer comment", input: []string{"\tBLOCK\tX\t;BLOCK TRANSFER"}, want: []string{"\tBLOCK\tX\t;BLOCK TRANSFER"}},
		{name: "hex byte", input: []string{"\t$FF"}, want: []string{"\t.BYTE 255"}},
		{name: "exp", input: []string{"\tEXP\tA,B"}, want: []string{"\t.BYTE A,B"}},
		{name: "octal data expression", input: []string{"\t333-ADDPRC"}, want: []string{"\t.BYTE 219-ADDPRC"}},
		{name: "immediate octal", input: []string{"\tLDAI\t12"}, want: []string{"\tLDA\t#$0A"}},
		{name: "immediate octal wider than a byte", input: []string{"\tLDAI\t400"}, want: []string{"\tLDA\t#400"}},
		{name: "immediate octal byte maximum", input: []string{"\tLDAI\t377"}, want: []string{"\tLDA\t#$FF"}},
		{name: "immediate expression", input: []string{"\tCMPI\t\"A\"-\"@\""}, want: []string{"\tCMP\t#'A'-'@'+$00"}},
		{name: "immediate quotes", input: []string{"\tCMPI\t\"Z\""}, want: []string{"\tCMP\t#'Z'"}},
		{name: "indirect indexed", input: []string{"\tLDADY\tINDEX"}, want: []string{"\tLDA\t(INDEX),Y"}},
		{name: "indirect jump", input: []string{"\tJMPD\tVECTOR"}, want: []string{"\tJMP\t(VECTOR)"}},
		{name: "unknown passes through", input: []string{"\tLDA\tFOO,X"}, want: []string{"\tLDA\tFOO,X"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRun(testTables())
			assert.Equal(t, tc.want, runStage(t, r.instructions, tc.input))
		})
	}
}

func TestInstructions_KnownSymbolAsData(t *testing.T) {
	r := newRun(testTables())
	r.symbols.Define("LINLEN", cty.StringVal("72"))
	assert.Equal(t, []string{"\t.BYTE LINLEN"}, runStage(t, r.instructions, []string{"\tLINLEN"}))
}

func TestInstructions_InvalidNumeral(t *testing.T) {
	r := newRun(testTables())
	_, err := r.instructions(context.Background(), source.NewQueue([]string{"\t19"}))
	require.ErrorIs(t, err, ErrInvalidNumeral)
}

func TestOctalToHex_RoundTrip(t *testing.T) {
	testCases := []struct {
		value uint64
		width int
	}{
		{value: 0, width: 2},
		{value: 63, width: 2},
		{value: 255, width: 2},
		{value: 256, width: 4},
		{value: 8192, width: 4},
		{value: 65535, width: 4},
	}

	for _, tc := range testCases {
		t.Run(strconv.FormatUint(tc.value, 10), func(t *testing.T) {
			hex, err := OctalToHex(strconv.FormatUint(tc.value, 8))
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hex, "$"))
			assert.Len(t, hex, tc.width+1)

			back, err := strconv.ParseUint(hex[1:], 16, 32)
			require.NoError(t, err)
			assert.Equal(t, tc.value, back)
		})
	}
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "LABEL:  LDA     X", ExpandTabs("LABEL:\tLDA\tX", 8))
	assert.Equal(t, "        RTS", ExpandTabs("\tRTS", 8))
	assert.Equal(t, "ABCDEFGH        X", ExpandTabs("ABCDEFGH\tX", 8))
	assert.Equal(t, "plain", ExpandTabs("plain", 8))
}

func TestTranslate(t *testing.T) {
	input := lines(`
TITLE	BASIC
RADIX	8
ROMLOC= ^O20000
ADDPRC=1
IFE	ROMLOC,<
	LDAI	12>
DEFINE	LDWD	(WD),<
	LDA	WD
	LDY	WD+1>
	REPEAT	3+ADDPRC,<ASL	A>
	ADDPRC`)

	want := []string{
		"; TITLE BASIC",
		"ROMLOC .SET $2000",
		"ADDPRC .SET 1",
		".IF ROMLOC=0",
		"        LDA     #$0A",
		".ENDIF",
		".MACRO LDWD WD",
		"        LDA     WD",
		"        LDY     WD+1",
		".ENDMACRO",
		"",
		"        ASL     A",
		"        ASL     A",
		"        ASL     A",
		"        ASL     A",
		"        .BYTE ADDPRC",
	}

	got, err := New(testTables(), 0).Translate(context.Background(), input)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Translate mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslate_StageErrorIsWrapped(t *testing.T) {
	_, err := New(testTables(), 0).Translate(context.Background(), []string{"DEFINE\tNOPE,<>"})
	require.ErrorIs(t, err, ErrUnknownMacro)
	assert.True(t, strings.HasPrefix(err.Error(), "macros: "))
}
