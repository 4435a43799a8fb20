package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestObserve_AssignmentSpellings(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		expected string
		matched  bool
	}{
		{name: "equals", line: "DISKO=1", expected: "1", matched: true},
		{name: "double equals", line: "DISKO==1", expected: "1", matched: true},
		{name: "set directive", line: "DISKO .SET 1\t\t;COMMENT", expected: "1", matched: true},
		{name: "non numeric value is defined but empty", line: "DISKO .SET $C000", expected: "", matched: true},
		{name: "indented line is not an assignment", line: "\tDISKO=1", matched: false},
		{name: "other symbol", line: "DISKOX=1", matched: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table := New(KeepFirst, "DISKO")
			assert.Equal(t, tc.matched, table.Observe(tc.line))
			value, ok := table.Text("DISKO")
			assert.Equal(t, tc.matched, ok)
			if tc.matched {
				assert.Equal(t, tc.expected, value)
			}
		})
	}
}

func TestPolicies(t *testing.T) {
	first := New(KeepFirst, "CBMRND")
	first.Observe("CBMRND .SET 0")
	first.Observe("CBMRND .SET 1")
	v, _ := first.Text("CBMRND")
	assert.Equal(t, "0", v)

	last := New(KeepLast, "CBMRND")
	last.Observe("CBMRND .SET 0")
	last.Observe("CBMRND .SET 1")
	v, _ = last.Text("CBMRND")
	assert.Equal(t, "1", v)
}

func TestUndefinedIsNotZero(t *testing.T) {
	table := New(KeepFirst, "ROMSW")
	v, ok := table.Lookup("ROMSW")
	assert.False(t, ok)
	assert.False(t, v.IsKnown())

	table.Define("ROMSW", cty.StringVal("0"))
	v, ok = table.Lookup("ROMSW")
	assert.True(t, ok)
	assert.True(t, v.IsKnown())
	assert.Equal(t, "0", v.AsString())
}

func TestOverridesWinAndSurviveReset(t *testing.T) {
	table := New(KeepLast, "REALIO", "DISKO")
	table.Override("REALIO", cty.StringVal("3"))
	table.Observe("REALIO=4")
	table.Observe("DISKO=1")

	v, _ := table.Text("REALIO")
	assert.Equal(t, "3", v)
	assert.True(t, table.Has("DISKO"))

	table.Reset()
	assert.False(t, table.Has("DISKO"))
	assert.True(t, table.Has("REALIO"))
}

func TestDefine_AllowList(t *testing.T) {
	table := New(KeepLast, "ADDPRC")
	assert.False(t, table.Define("OTHER", cty.StringVal("1")))
	assert.True(t, table.Define("ADDPRC", cty.StringVal("1")))
	assert.False(t, table.Define("ADDPRC", cty.StringVal("1")), "same value is not a change")

	open := New(KeepLast)
	assert.True(t, open.Define("ANY", cty.StringVal("7")))
	assert.False(t, open.Observe("ANY=8"), "open tables do not scan lines")
}

func TestInt(t *testing.T) {
	table := New(KeepLast)
	table.Define("ADDPRC", cty.StringVal("1"))
	table.Define("ROMLOC", cty.StringVal("$C000"))
	table.Define("NUM", cty.NumberIntVal(42))
	table.Define("EXPR", cty.StringVal("(BUF/256)*256"))

	testCases := []struct {
		name     string
		expected int64
		ok       bool
	}{
		{name: "ADDPRC", expected: 1, ok: true},
		{name: "ROMLOC", expected: 0xC000, ok: true},
		{name: "NUM", expected: 42, ok: true},
		{name: "EXPR", ok: false},
		{name: "MISSING", ok: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := table.Int(tc.name)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("LAST")
	require.NoError(t, err)
	assert.Equal(t, KeepLast, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, KeepFirst, p)

	_, err = ParsePolicy("middle")
	assert.Error(t, err)
	assert.Equal(t, "first", KeepFirst.String())
}
