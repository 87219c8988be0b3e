// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parser converts editor HTML into a Node tree.
type Parser struct {
	policy *bluemonday.Policy
}

// anyElement matches every tag name the tokenizer can produce, including
// custom elements.
var anyElement = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// NewParser returns a Parser. When sanitize is true the input is passed
// through structurePolicy first.
func NewParser(sanitize bool) *Parser {
	p := &Parser{}
	if sanitize {
		p.policy = structurePolicy()
	}
	return p
}

// structurePolicy keeps every element so text nodes never merge across a
// removed tag. It drops script and style elements with their text, every
// attribute except img src, and image sources that are neither http(s),
// relative, nor base64 data images.
func structurePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowNoAttrs().OnElementsMatching(anyElement)
	p.AllowAttrs("src").OnElements("img")
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https")
	p.AllowDataURIImages()
	return p
}

// Parse parses src and returns a container whose children are the nodes of
// the document body. Malformed markup never fails: the HTML5 parsing
// algorithm repairs it and unknown tags become containers.
func (p *Parser) Parse(src string) (*Node, error) {
	if p.policy != nil {
		src = p.policy.Sanitize(src)
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}

	root := Root()
	body := findBody(doc)
	if body == nil {
		return root, nil
	}
	root.Children = convertChildren(body)
	return root, nil
}

// Parse parses src without sanitizing it.
func Parse(src string) (*Node, error) {
	return NewParser(false).Parse(src)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func convertChildren(n *html.Node) []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if node := convertNode(c); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// convertNode returns nil for nodes that contribute nothing: comments,
// doctypes and images without a source.
func convertNode(n *html.Node) *Node {
	switch n.Type {
	case html.TextNode:
		return Text(n.Data)
	case html.ElementNode:
	default:
		return nil
	}

	kind := KindForTag(n.Data)
	if kind == KindImage {
		src := attr(n, "src")
		if src == "" {
			return nil
		}
		return Image(src)
	}
	return Elem(kind, convertChildren(n)...)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
