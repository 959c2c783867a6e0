package rod

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const fragmentMaxSize = 20_000

var skippedTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "svg": true,
	"iframe": true, "template": true, "head": true, "button": true,
}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "dt": true, "dd": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true, "table": true,
	"ul": true, "ol": true, "dl": true, "pre": true, "textarea": true,
}

// FragmentText turns an element's HTML into readable plain text: scripts and
// styles dropped, block elements on their own lines, runs of blanks collapsed.
func FragmentText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var sb strings.Builder
	for _, n := range nodes {
		writeText(&sb, n)
	}
	return truncateText(collapseLines(sb.String()), fragmentMaxSize)
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if skippedTags[n.Data] {
			return
		}
		if hidden(n) {
			return
		}
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
	if block {
		sb.WriteString("\n")
	}
}

func hidden(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if attr.Val == "true" {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") {
				return true
			}
		}
	}
	return false
}

func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// truncateText keeps at most maxSize runes.
func truncateText(s string, maxSize int) string {
	if len(s) <= maxSize {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxSize {
		return s
	}
	return string(runes[:maxSize]) + "\n... (truncated)"
}
