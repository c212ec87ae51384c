// Package xmltree provides a forward-only cursor over a parsed XML
// node tree.
//
// The cursor exposes the scoped traversal used by capability parsers:
// Enter descends into the current element's children, Advance moves to
// the next element sibling, AtEnd reports exhaustion of the current
// depth and Leave returns to the element that was entered.  Every
// Enter must be paired with exactly one Leave, including on early
// error returns; callers typically pair them with defer.  Enter on a
// childless element and Leave without a matching Enter are safe, so a
// parser aborting mid-scope cannot corrupt the cursor.
//
// Only element nodes are visited.  Text, comment and declaration
// nodes are skipped by all movement operations; an element's text is
// available through Text and TextUint.
package xmltree
