package resolver

import "strings"

type nodeKind int

const (
	textNode nodeKind = iota
	pathNode
	condNode
)

type node struct {
	kind      nodeKind
	text      string
	then      []node
	otherwise []node
}

// Template is a parsed long URL.
//
// Supported tags are {path}, which expands to the remaining path segments
// joined by "/", and a single-level conditional:
//
//	{{ if path }} ... {{ else }} ... {{ endif }}
//
// A template without any tag gets the remaining path appended instead.
type Template struct {
	raw      string
	nodes    []node
	explicit bool
}

type scanState int

const (
	stateLiteral scanState = iota
	stateIfBranch
	stateElseBranch
)

// ParseTemplate scans s in a single pass. It fails with a *TemplateError on
// an unclosed conditional or a stray else/endif.
func ParseTemplate(s string) (*Template, error) {
	t := &Template{raw: s}

	state := stateLiteral
	var pending node
	var pendingAt int
	var lit strings.Builder

	emit := func(n node) {
		switch state {
		case stateIfBranch:
			pending.then = append(pending.then, n)
		case stateElseBranch:
			pending.otherwise = append(pending.otherwise, n)
		default:
			t.nodes = append(t.nodes, n)
		}
	}
	flush := func() {
		if lit.Len() > 0 {
			emit(node{kind: textNode, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		if s[i] != '{' {
			j := strings.IndexByte(s[i:], '{')
			if j < 0 {
				j = len(s) - i
			}
			lit.WriteString(s[i : i+j])
			i += j
			continue
		}

		if tag, end, ok := blockTag(s, i); ok {
			flush()
			switch tag {
			case "if path":
				if state != stateLiteral {
					return nil, &TemplateError{Err: ErrUnexpectedToken, Token: s[i:end], Offset: i}
				}
				pending = node{kind: condNode}
				pendingAt = i
				state = stateIfBranch
			case "else":
				if state != stateIfBranch {
					return nil, &TemplateError{Err: ErrUnexpectedToken, Token: s[i:end], Offset: i}
				}
				state = stateElseBranch
			case "endif":
				if state == stateLiteral {
					return nil, &TemplateError{Err: ErrUnexpectedToken, Token: s[i:end], Offset: i}
				}
				state = stateLiteral
				t.nodes = append(t.nodes, pending)
				pending = node{}
			}
			t.explicit = true
			i = end
			continue
		}

		if end, ok := pathTag(s, i); ok {
			flush()
			emit(node{kind: pathNode})
			t.explicit = true
			i = end
			continue
		}

		lit.WriteByte('{')
		i++
	}

	if state != stateLiteral {
		return nil, &TemplateError{Err: ErrUnterminatedConditional, Token: "{{ if path }}", Offset: pendingAt}
	}
	flush()
	return t, nil
}

// blockTag matches "{{ if path }}", "{{ else }}" or "{{ endif }}" at s[i:].
// It returns the whitespace-collapsed tag and the index just past "}}".
func blockTag(s string, i int) (string, int, bool) {
	if !strings.HasPrefix(s[i:], "{{") {
		return "", 0, false
	}
	j := strings.Index(s[i+2:], "}}")
	if j < 0 {
		return "", 0, false
	}
	tag := strings.Join(strings.Fields(s[i+2:i+2+j]), " ")
	switch tag {
	case "if path", "else", "endif":
		return tag, i + 2 + j + 2, true
	}
	return "", 0, false
}

// pathTag matches "{path}" at s[i:], allowing whitespace inside the braces.
func pathTag(s string, i int) (int, bool) {
	j := strings.IndexByte(s[i+1:], '}')
	if j < 0 {
		return 0, false
	}
	if strings.TrimSpace(s[i+1:i+1+j]) != "path" {
		return 0, false
	}
	return i + 1 + j + 1, true
}

// Expand renders the template against the remaining path segments.
func (t *Template) Expand(remaining []string) string {
	path := strings.Join(remaining, "/")
	if !t.explicit {
		return appendPath(t.raw, path)
	}

	var b strings.Builder
	render(&b, t.nodes, path, len(remaining) > 0)
	return b.String()
}

// Explicit reports whether the template uses any tag. Templates without tags
// get the remaining path appended.
func (t *Template) Explicit() bool { return t.explicit }

func (t *Template) String() string { return t.raw }

func render(b *strings.Builder, nodes []node, path string, hasPath bool) {
	for _, n := range nodes {
		switch n.kind {
		case textNode:
			b.WriteString(n.text)
		case pathNode:
			b.WriteString(path)
		case condNode:
			if hasPath {
				render(b, n.then, path, hasPath)
			} else {
				render(b, n.otherwise, path, hasPath)
			}
		}
	}
}

// appendPath inserts path before any query string or fragment of raw.
func appendPath(raw, path string) string {
	if path == "" {
		return raw
	}
	head, tail := raw, ""
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		head, tail = raw[:i], raw[i:]
	}
	return strings.TrimRight(head, "/") + "/" + path + tail
}

// Expand parses template and renders it against remaining.
func Expand(template string, remaining []string) (string, error) {
	t, err := ParseTemplate(template)
	if err != nil {
		return "", err
	}
	return t.Expand(remaining), nil
}
