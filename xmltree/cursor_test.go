package xmltree

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cursorTestDoc = `<?xml version="1.0" encoding="UTF-8"?>
<scan:Root xmlns:scan="http://schemas.hp.com/imaging/escl/2011/05/03"
           xmlns:pwg="http://www.pwg.org/schemas/2010/12/sm">
  <pwg:Alpha> one </pwg:Alpha>
  <!-- ignored -->
  <scan:Beta>
    <scan:Gamma>42</scan:Gamma>
    <scan:Delta>forty-two</scan:Delta>
  </scan:Beta>
  <scan:Empty/>
</scan:Root>`

func parseTestDoc(t *testing.T, doc string) *Cursor {
	t.Helper()
	root, err := xmlquery.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return NewCursor(root)
}

func TestCursorWalk(t *testing.T) {
	a := assert.New(t)
	cur := parseTestDoc(t, cursorTestDoc)

	// NewCursor on a document node lands on the root element.
	a.True(cur.Matches("scan:Root"))
	a.False(cur.Matches("scan:root"))
	a.Equal("scan:Root", cur.Name())

	cur.Enter()
	a.Equal(1, cur.Depth())
	a.True(cur.Matches("pwg:Alpha"))
	a.Equal("one", cur.Text())

	cur.Advance()
	a.True(cur.Matches("scan:Beta"))

	cur.Enter()
	a.True(cur.Matches("scan:Gamma"))
	v, err := cur.TextUint()
	a.NoError(err)
	a.Equal(42, v)

	cur.Advance()
	a.True(cur.Matches("scan:Delta"))
	_, err = cur.TextUint()
	if a.Error(err) {
		a.Contains(err.Error(), "forty-two")
		a.Contains(err.Error(), "scan:Delta")
	}

	cur.Advance()
	a.True(cur.AtEnd())
	a.Equal("", cur.Name())
	a.Equal("", cur.Text())
	cur.Leave()
	a.True(cur.Matches("scan:Beta"))

	cur.Advance()
	a.True(cur.Matches("scan:Empty"))
	cur.Enter()
	a.True(cur.AtEnd())
	cur.Leave()

	cur.Advance()
	a.True(cur.AtEnd())
	cur.Leave()
	a.Equal(0, cur.Depth())
	a.True(cur.Matches("scan:Root"))

	// Leave without a matching Enter must not move the cursor.
	cur.Leave()
	a.True(cur.Matches("scan:Root"))
}

func TestCursorEnterAtEnd(t *testing.T) {
	a := assert.New(t)
	cur := parseTestDoc(t, cursorTestDoc)

	cur.Enter()
	for !cur.AtEnd() {
		cur.Advance()
	}
	// Entering at the end-of-children position still balances with Leave.
	cur.Enter()
	a.True(cur.AtEnd())
	cur.Leave()
	a.True(cur.AtEnd())
	cur.Leave()
	a.True(cur.Matches("scan:Root"))
}

func TestCursorTextUint(t *testing.T) {
	for _, tc := range []struct {
		text string
		want int
		ok   bool
	}{
		{text: "0", want: 0, ok: true},
		{text: "300", want: 300, ok: true},
		{text: " 600 ", want: 600, ok: true},
		{text: "-1"},
		{text: "12.5"},
		{text: ""},
		{text: "0x10"},
	} {
		t.Run(tc.text, func(t *testing.T) {
			doc := `<r xmlns:scan="urn:x"><scan:V>` + tc.text + `</scan:V></r>`
			cur := parseTestDoc(t, doc)
			cur.Enter()
			defer cur.Leave()
			require.True(t, cur.Matches("scan:V"))
			v, err := cur.TextUint()
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}
