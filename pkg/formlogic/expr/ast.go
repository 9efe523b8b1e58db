package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Node is an immutable expression AST node.
// Nodes are safe to cache and reuse across evaluations: parsing is
// deterministic and evaluation never mutates the tree.
type Node interface {
	// String renders the node as canonical expression text.
	String() string

	node()
}

// Seg is one segment of a reference path: a name with an optional
// element index, as in q1, q1[0] or row.col.
type Seg struct {
	Name     string
	Index    int
	HasIndex bool
}

// Path identifies a question value: the first segment names the root
// question, subsequent segments descend into structured row/panel values.
type Path []Seg

// Root returns the root question identifier of the path.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].Name
}

// String renders the path in reference syntax without braces.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
		if seg.HasIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// ParsePath parses reference path text (the inside of a braced
// reference) into a Path. It returns a *LexError on malformed input.
func ParsePath(raw string) (Path, error) {
	var path Path
	for i, part := range strings.Split(raw, ".") {
		part = strings.TrimSpace(part)
		seg := Seg{Name: part}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, &LexError{Pos: i, Message: "malformed index in reference " + strconv.Quote(raw)}
			}
			idx, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || idx < 0 {
				return nil, &LexError{Pos: i, Message: "malformed index in reference " + strconv.Quote(raw)}
			}
			seg = Seg{Name: part[:open], Index: idx, HasIndex: true}
		}
		if !isIdentifier(seg.Name) {
			return nil, &LexError{Pos: i, Message: "invalid segment in reference " + strconv.Quote(raw)}
		}
		path = append(path, seg)
	}
	return path, nil
}

// isIdentifier reports whether s is a valid path segment name: a
// letter or underscore followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if isLetter(s[i]) {
			continue
		}
		if i > 0 && isDigit(s[i]) {
			continue
		}
		return false
	}
	return true
}

// Literal is a constant value.
type Literal struct {
	Value Value
}

func (n *Literal) node() {}

// String renders the literal as expression text.
func (n *Literal) String() string {
	if n.Value.Kind() == KindText {
		return "'" + n.Value.String() + "'"
	}
	return n.Value.String()
}

// Ref reads a question value through the evaluation context.
type Ref struct {
	Path Path
}

func (n *Ref) node() {}

// String renders the reference in braced syntax.
func (n *Ref) String() string {
	return "{" + n.Path.String() + "}"
}

// Unary applies a prefix operator ("!" or "-") to its operand.
type Unary struct {
	Op      string
	Operand Node
}

func (n *Unary) node() {}

// String renders the operator and operand.
func (n *Unary) String() string {
	return n.Op + n.Operand.String()
}

// Binary applies an arithmetic, relational or equality operator.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

func (n *Binary) node() {}

// String renders the operation parenthesized.
func (n *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// Logical applies a short-circuiting "&&" or "||".
type Logical struct {
	Op    string
	Left  Node
	Right Node
}

func (n *Logical) node() {}

// String renders the operation parenthesized.
func (n *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// Call invokes a built-in or registered function.
type Call struct {
	Name string
	Args []Node
}

func (n *Call) node() {}

// String renders the call.
func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// References returns the sorted set of root question identifiers the
// expression reads. It walks the full tree once; the result is used to
// build dependency edges for recompute scheduling.
func References(n Node) []string {
	seen := make(map[string]struct{})
	collectRefs(n, seen)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collectRefs(n Node, seen map[string]struct{}) {
	switch node := n.(type) {
	case *Ref:
		if root := node.Path.Root(); root != "" {
			seen[root] = struct{}{}
		}
	case *Unary:
		collectRefs(node.Operand, seen)
	case *Binary:
		collectRefs(node.Left, seen)
		collectRefs(node.Right, seen)
	case *Logical:
		collectRefs(node.Left, seen)
		collectRefs(node.Right, seen)
	case *Call:
		for _, a := range node.Args {
			collectRefs(a, seen)
		}
	}
}
