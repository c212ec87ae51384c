package xmltree

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/pkg/errors"
)

// Cursor is a forward-only navigator over an *xmlquery.Node tree.
//
// A Cursor is positioned either on an element node or at the
// end-of-children position of the depth it last entered, in which
// case AtEnd reports true and the value accessors return zero values.
type Cursor struct {
	node  *xmlquery.Node
	stack []*xmlquery.Node
}

// NewCursor returns a Cursor positioned on node.  If node is a
// document node, the cursor is positioned on its first element child.
func NewCursor(node *xmlquery.Node) *Cursor {
	if node != nil && node.Type != xmlquery.ElementNode {
		node = firstElement(node.FirstChild)
	}
	return &Cursor{node: node}
}

// Enter descends into the current element's children, positioning the
// cursor on the first element child.  If the current element has no
// element children, the cursor is left at the end-of-children
// position of the new depth.  Enter always pushes a stack frame, so
// it pairs with Leave even for childless elements.
func (c *Cursor) Enter() {
	c.stack = append(c.stack, c.node)
	if c.node != nil {
		c.node = firstElement(c.node.FirstChild)
	}
}

// Leave returns the cursor to the element on which the matching Enter
// was called.  Leave without a matching Enter is a no-op.
func (c *Cursor) Leave() {
	if n := len(c.stack); n > 0 {
		c.node = c.stack[n-1]
		c.stack = c.stack[:n-1]
	}
}

// AtEnd reports whether no element remains at the current depth.
func (c *Cursor) AtEnd() bool { return c.node == nil }

// Advance moves the cursor to the next element sibling, or to the
// end-of-children position when none remains.
func (c *Cursor) Advance() {
	if c.node != nil {
		c.node = firstElement(c.node.NextSibling)
	}
}

// Depth returns the number of Enter calls not yet matched by Leave.
func (c *Cursor) Depth() int { return len(c.stack) }

// Matches reports whether the current element's qualified
// prefix:local name equals name.  The comparison is case-sensitive.
func (c *Cursor) Matches(name string) bool {
	return c.node != nil && qualifiedName(c.node) == name
}

// Name returns the qualified prefix:local name of the current
// element, or "" at the end-of-children position.
func (c *Cursor) Name() string {
	if c.node == nil {
		return ""
	}
	return qualifiedName(c.node)
}

// Text returns the current element's text value, stripped of leading
// and trailing space.
func (c *Cursor) Text() string {
	if c.node == nil {
		return ""
	}
	return strings.TrimSpace(c.node.InnerText())
}

// TextUint parses the current element's text value as a non-negative
// decimal integer.
func (c *Cursor) TextUint() (int, error) {
	s := c.Text()
	v, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, errors.Errorf("invalid numeric value %q of %s", s, c.Name())
	}
	return int(v), nil
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for ; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

func qualifiedName(n *xmlquery.Node) string {
	if n.Prefix == "" {
		return n.Data
	}
	return n.Prefix + ":" + n.Data
}
