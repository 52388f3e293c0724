package adjuster

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/parser"
)

type declaration struct {
	property  string
	value     string
	important bool
}

// parseInline reads a style attribute. Input douceur rejects, or reads
// with an empty value, is split by hand so nothing the page already had
// gets dropped.
func parseInline(style string) []declaration {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil
	}
	if !strings.HasSuffix(style, ";") {
		style += ";"
	}

	if decls, ok := parseDouceur(style); ok {
		return decls
	}

	var out []declaration
	for _, part := range splitTopLevel(style) {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		value := strings.TrimSpace(kv[1])
		important := false
		if strings.HasSuffix(strings.ToLower(value), "!important") {
			important = true
			value = strings.TrimSpace(value[:len(value)-len("!important")])
		}
		out = append(out, declaration{
			property:  strings.ToLower(strings.TrimSpace(kv[0])),
			value:     value,
			important: important,
		})
	}

	return out
}

func parseDouceur(style string) ([]declaration, bool) {
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil, false
	}

	out := make([]declaration, 0, len(decls))
	for _, d := range decls {
		if d == nil || strings.TrimSpace(d.Property) == "" {
			continue
		}
		value := strings.TrimSpace(d.Value)
		if value == "" {
			return nil, false
		}
		out = append(out, declaration{
			property:  strings.ToLower(strings.TrimSpace(d.Property)),
			value:     value,
			important: d.Important,
		})
	}

	return out, true
}

// splitTopLevel cuts a declaration list at semicolons that sit outside
// parentheses and quoted strings, so url(data:...;base64,...) survives.
func splitTopLevel(style string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range style {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			parts = append(parts, style[start:i])
			start = i + 1
		}
	}
	if start < len(style) {
		parts = append(parts, style[start:])
	}

	return parts
}

func formatInline(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		s := d.property + ": " + d.value
		if d.important {
			s += " !important"
		}
		parts = append(parts, s)
	}

	return strings.Join(parts, "; ") + ";"
}

// setStyleProperty behaves like element.style.setProperty: an existing
// declaration is replaced where it stands, otherwise one is appended.
func setStyleProperty(sel *goquery.Selection, property, value string) {
	property = strings.ToLower(property)
	decls := parseInline(sel.AttrOr("style", ""))

	found := false
	kept := decls[:0]
	for _, d := range decls {
		if d.property != property {
			kept = append(kept, d)
			continue
		}
		if found {
			continue
		}
		found = true
		kept = append(kept, declaration{property: property, value: value})
	}
	if !found {
		kept = append(kept, declaration{property: property, value: value})
	}

	sel.SetAttr("style", formatInline(kept))
}

func styleProperty(sel *goquery.Selection, property string) string {
	property = strings.ToLower(property)
	val := ""
	for _, d := range parseInline(sel.AttrOr("style", "")) {
		if d.property == property {
			val = d.value
		}
	}

	return val
}
