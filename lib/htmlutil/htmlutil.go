package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	// <br> separates words visually even though it carries no text
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteByte(' ')
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText turns every unicode space (including &nbsp;) into an ascii
// space, drops non-printable characters, collapses runs of whitespace and
// trims the result.
func CleanText(s string) string {
	s = strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return ' '
		}
		if !unicode.IsPrint(c) {
			return -1
		}
		return c
	}, s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.Trim(s, " ")
}

// NodeText is CleanText(GetText(node)).
func NodeText(node *html.Node) string {
	return CleanText(GetText(node))
}

// CellTexts returns the cleaned text of each direct <td> or <th> child of
// a table row, in document order.
func CellTexts(row *goquery.Selection) []string {
	cells := row.ChildrenFiltered("td, th")
	texts := make([]string, 0, cells.Length())
	for _, n := range cells.Nodes {
		texts = append(texts, NodeText(n))
	}
	return texts
}
