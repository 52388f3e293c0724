// Package rules holds the language rule table: which text direction and
// which font stack to give vernacular text in a given language.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var ErrInvalidRule = errors.New("invalid rule")

type Direction string

const (
	DirAuto Direction = "auto"
	DirRTL  Direction = "rtl"
	DirLTR  Direction = "ltr"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirAuto, DirRTL, DirLTR:
		return d, nil
	case "":
		return DirAuto, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidRule, s)
	}
}

// FontStack is an ordered list of font family names, most preferred first.
type FontStack []string

// ParseFontStack splits a CSS-style family list ("Scheherazade New, Amiri").
func ParseFontStack(s string) FontStack {
	var out FontStack
	for _, f := range strings.Split(s, ",") {
		f = strings.Trim(strings.TrimSpace(f), `"'`)
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}

// CSS renders the stack as a font-family value. Names containing
// whitespace are quoted.
func (f FontStack) CSS() string {
	parts := make([]string, 0, len(f))
	for _, name := range f {
		if strings.ContainsAny(name, " \t") {
			parts = append(parts, `"`+name+`"`)
		} else {
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, ", ")
}

func (f FontStack) String() string {
	return strings.Join(f, ", ")
}

type Rule struct {
	Lang string
	Dir  Direction
	Font FontStack
}

// Table is the rule set walked in fixed order: Default first, then each
// override in declaration order.
type Table struct {
	Default   Rule
	Overrides []Rule
}

// CanonicalLang folds a language tag for comparison: trimmed, lower-cased,
// with "_" read as "-". Nothing else is rewritten, so "ara" stays distinct
// from "ar" the same way it does for the attribute selector in the page.
func CanonicalLang(tag string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), "_", "-")
}

// Lookup returns the first override whose language equals lang. Matching
// is exact: "ar-EG" does not select an "ar" rule.
func (t Table) Lookup(lang string) (Rule, bool) {
	want := CanonicalLang(lang)
	if want == "" {
		return Rule{}, false
	}
	for _, r := range t.Overrides {
		if CanonicalLang(r.Lang) == want {
			return r, true
		}
	}

	return Rule{}, false
}

func (t Table) Validate() error {
	if t.Default.Lang != "" {
		return fmt.Errorf("%w: default rule must not name a language", ErrInvalidRule)
	}
	if _, err := ParseDirection(string(t.Default.Dir)); err != nil {
		return err
	}

	seen := map[string]bool{}
	for i, r := range t.Overrides {
		if strings.TrimSpace(r.Lang) == "" {
			return fmt.Errorf("%w: override %d has no language", ErrInvalidRule, i+1)
		}
		if _, err := language.Parse(r.Lang); err != nil {
			return fmt.Errorf("%w: override %d: bad language %q: %v", ErrInvalidRule, i+1, r.Lang, err)
		}
		if _, err := ParseDirection(string(r.Dir)); err != nil {
			return fmt.Errorf("override %q: %w", r.Lang, err)
		}

		key := CanonicalLang(r.Lang)
		if seen[key] {
			return fmt.Errorf("%w: duplicate language %q", ErrInvalidRule, r.Lang)
		}
		seen[key] = true
	}

	return nil
}

// With returns a copy of t where each rule in extra replaces the override
// for the same language or is appended after the existing ones.
func (t Table) With(extra ...Rule) Table {
	out := Table{
		Default:   t.Default,
		Overrides: append([]Rule(nil), t.Overrides...),
	}

	for _, r := range extra {
		replaced := false
		for i := range out.Overrides {
			if CanonicalLang(out.Overrides[i].Lang) == CanonicalLang(r.Lang) {
				out.Overrides[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			out.Overrides = append(out.Overrides, r)
		}
	}

	return out
}
