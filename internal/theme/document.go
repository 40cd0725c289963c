package theme

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

const rootTag = "theme"

// node is one element of a parsed theme document. text holds the
// character data that precedes the first child element.
type node struct {
	tag      string
	attrs    map[string]string
	text     string
	children []*node
}

func (n *node) attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// trimmedText returns the node text without surrounding whitespace.
func (n *node) trimmedText() string { return strings.TrimSpace(n.text) }

// child returns the first direct child with the given tag.
func (n *node) child(tag string) *node {
	for _, c := range n.children {
		if c.tag == tag {
			return c
		}
	}
	return nil
}

// all returns every direct child with the given tag, in document order.
func (n *node) all(tag string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// The legacy frontend accepts comment markers with three dashes, which a
// strict XML parser rejects.
var commentFixer = strings.NewReplacer("<!---", "<!-- ", "--->", " -->")

// loadDocument reads and parses one theme document and checks its root tag.
func loadDocument(path string) (*node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: file not found: %w", path, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	fixed := commentFixer.Replace(string(data))
	root, err := parseDocument(strings.NewReader(fixed))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrMalformed, err)
	}
	if root.tag != rootTag {
		return nil, fmt.Errorf("%s: %w: found <%s>", path, ErrWrongRoot, root.tag)
	}
	return root, nil
}

func parseDocument(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var root *node
	var stack []*node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{tag: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			} else {
				return nil, errors.New("more than one root element")
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if len(top.children) == 0 {
					top.text += string(t)
				}
			}
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}
