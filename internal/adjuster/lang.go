package adjuster

import (
	"strings"

	"golang.org/x/net/html"
)

// EffectiveLang walks from n to the root and returns the first declared
// language. An explicit lang="" ends the walk: the language is unknown.
func EffectiveLang(n *html.Node) string {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if v, ok := declaredLang(cur); ok {
			return strings.TrimSpace(v)
		}
	}

	return ""
}

// A namespaced xml:lang (foreign content such as SVG) wins over lang on the
// same element. A literal "xml:lang" attribute in HTML content is ignored.
func declaredLang(n *html.Node) (string, bool) {
	var lang string
	var hasLang bool
	for _, a := range n.Attr {
		switch {
		case a.Namespace == "xml" && a.Key == "lang":
			return a.Val, true
		case a.Namespace == "" && strings.EqualFold(a.Key, "lang"):
			lang, hasLang = a.Val, true
		}
	}

	return lang, hasLang
}
