package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/anicholas99/claimgraph/internal/model"
)

// HTMLExtractor recovers numbered claims from a patent web page.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML claim extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract parses the page and splits its claim text. Sections marked as
// claims (a "claim" element, or class/id containing "claim") are preferred;
// when a page has no such markup the whole visible text is scanned. An
// empty result means the page simply contained no numbered claims.
func (e *HTMLExtractor) Extract(htmlContent string) ([]model.Claim, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	sections := claimSections(doc)
	var text string
	if len(sections) > 0 {
		var b strings.Builder
		for _, n := range sections {
			b.WriteString(visibleText(n))
			b.WriteString("\n")
		}
		text = b.String()
	} else {
		text = visibleText(doc)
	}

	return SplitNumberedClaims(text), nil
}

// Title returns the page title, used to name imported inventions. Empty
// when the page has none.
func (e *HTMLExtractor) Title(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			title = strings.TrimSpace(visibleText(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// claimSections collects the outermost nodes that look like claim
// containers. Matching nodes are not descended into, so nested claim
// markup is collected once.
func claimSections(doc *html.Node) []*html.Node {
	var sections []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isClaimNode(n) {
			sections = append(sections, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sections
}

func isClaimNode(n *html.Node) bool {
	if n.Data == "claim" || n.Data == "claims" {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" && attr.Key != "id" {
			continue
		}
		if strings.Contains(strings.ToLower(attr.Val), "claim") {
			return true
		}
	}
	return false
}

// blockTags force line breaks in the flattened text so claim-number
// markers land at line starts for the splitter.
var blockTags = map[string]bool{
	"div": true, "p": true, "li": true, "br": true, "tr": true,
	"section": true, "article": true, "claim": true, "claim-text": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
}

// visibleText flattens a node's text, skipping non-content elements and
// inserting newlines at block boundaries.
func visibleText(root *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
			if blockTags[n.Data] {
				b.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteString("\n")
		}
	}
	walk(root)
	return b.String()
}
