package xmlenc

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_Conventions(t *testing.T) {
	root := Map{}.Add("Document", Map{}.
		Add("@xmlns", "urn:test").
		Add("Amt", Map{}.Add("@Ccy", "CHF").Add(TextKey, decimal.RequireFromString("100.20").StringFixed(2))).
		Add("Flag", true).
		Add("Count", int64(2)).
		Add("Line", []string{"first", "second"}))

	out, err := Marshal(root, WithIndent(""))
	require.NoError(t, err)

	expected := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<Document xmlns="urn:test"><Amt Ccy="CHF">100.20</Amt><Flag>true</Flag><Count>2</Count><Line>first</Line><Line>second</Line></Document>`
	assert.Equal(t, expected, string(out))
}

func TestMarshal_PreservesOrder(t *testing.T) {
	root := Map{}.Add("R", Map{}.Add("Z", "1").Add("A", "2").Add("M", "3"))

	out, err := Marshal(root, WithIndent(""))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<R><Z>1</Z><A>2</A><M>3</M></R>")
}

func TestMarshal_Escaping(t *testing.T) {
	root := Map{}.Add("R", Map{}.
		Add("@Note", `a "quoted" <value> & more`).
		Add("Txt", "Fish & Chips <Ltd>"))

	out, err := Marshal(root, WithIndent(""))
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Fish &amp; Chips &lt;Ltd&gt;")
	assert.Contains(t, s, `Note="a &#34;quoted&#34; &lt;value&gt; &amp; more"`)
	assert.NotContains(t, s, "<Ltd>")
}

func TestMarshal_SkipsNilAndRepeatsMaps(t *testing.T) {
	root := Map{}.Add("R", Map{}.
		Add("Skip", nil).
		Add("Item", []Map{{{Key: "Id", Value: "1"}}, {{Key: "Id", Value: "2"}}}))

	out, err := Marshal(root, WithIndent(""))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<R><Item><Id>1</Id></Item><Item><Id>2</Id></Item></R>")
	assert.NotContains(t, string(out), "Skip")
}

func TestMarshal_Indented(t *testing.T) {
	root := Map{}.Add("R", Map{}.Add("A", Map{}.Add("B", "x")))

	out, err := Marshal(root)
	require.NoError(t, err)

	expected := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		"<R>\n  <A>\n    <B>x</B>\n  </A>\n</R>"
	assert.Equal(t, expected, string(out))
}

func TestMarshal_Errors(t *testing.T) {
	tests := []struct {
		name string
		root Map
	}{
		{"no root element", Map{}},
		{"two root elements", Map{}.Add("A", "1").Add("B", "2")},
		{"attribute at root", Map{}.Add("@x", "1")},
		{"text mixed with children", Map{}.Add("R", Map{}.Add(TextKey, "t").Add("C", "c"))},
		{"unsupported type", Map{}.Add("R", Map{}.Add("C", 1.5))},
		{"nul byte in text", Map{}.Add("R", Map{}.Add("C", "inv\x00oice"))},
		{"invalid UTF-8 in text", Map{}.Add("R", Map{}.Add("C", "oice \xff"))},
		{"control character in attribute", Map{}.Add("R", Map{}.Add("@a", "x\x01").Add(TextKey, "t"))},
		{"invalid UTF-8 in repeated line", Map{}.Add("R", Map{}.Add("L", []string{"ok", "\xfe"}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.root)
			assert.Error(t, err)
		})
	}
}

func TestMapHelpers(t *testing.T) {
	m := Map{}.AddString("Empty", "").AddString("Nm", "John").AddMap("None", nil)
	require.Len(t, m, 1)

	v, ok := m.Get("Nm")
	assert.True(t, ok)
	assert.Equal(t, "John", v)

	_, ok = m.Get("Empty")
	assert.False(t, ok)
}

func TestEncoder_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	err := NewEncoder(&buf, WithIndent("\t")).Encode(Map{}.Add("R", Map{}.Add("A", "1")))
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>`+"\n<R>\n\t<A>1</A>\n</R>", buf.String())
}
