package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	c := Code()
	assert.True(t, strings.HasPrefix(c, "//+---"))
	assert.Contains(t, c, "FlowShift_MT5")
	assert.Contains(t, c, `iCustom(_Symbol, _Period, "NB_SHI_Channel_true")`)
	assert.True(t, strings.HasSuffix(c, "}"))
}

func TestClassify(t *testing.T) {
	cases := map[string]LineKind{
		"//| header":                       KindComment,
		"#property strict":                 KindDirective,
		"input double RiskPercent = 1.0;":  KindDeclaration,
		"int shiHandle;":                   KindDeclaration,
		"   // indented note":              KindCode,
		"CTrade trade;":                    KindCode,
		"":                                 KindCode,
		"void OnTick() {":                  KindCode,
		"   if(PositionSelect(_Symbol)) {": KindCode,
		"int OnInit() {":                   KindDeclaration,
	}
	for line, want := range cases {
		assert.Equal(t, want, Classify(line), line)
	}
}

func TestGet(t *testing.T) {
	l := Get()
	require.Equal(t, 42, l.LineCount)
	require.Len(t, l.Lines, 42)
	assert.Equal(t, Standard, l.Standard)
	assert.Equal(t, 1, l.Lines[0].Number)
	assert.Equal(t, KindComment, l.Lines[0].Kind)
	assert.Equal(t, KindDirective, l.Lines[5].Kind)
	assert.Equal(t, "#property strict", l.Lines[5].Text)
}
