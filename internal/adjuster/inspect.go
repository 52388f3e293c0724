package adjuster

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/bidi"

	"github.com/enabling-languages/vernacular/internal/rules"
)

// Finding describes what a pass does, or did, to one vernacular element.
type Finding struct {
	Index int
	Lang  string
	Rule  string
	Dir   rules.Direction
	Font  string

	// Strong is the direction a renderer infers for dir="auto": taken from
	// the first strong bidi character of the text, empty when there is none.
	Strong rules.Direction
	Text   string
}

// Inspect reports the vernacular elements of doc without changing it.
func (a *Adjuster) Inspect(doc *goquery.Document) []Finding {
	var out []Finding

	doc.FindMatcher(a.marker).Each(func(i int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		f := Finding{
			Index:  i + 1,
			Lang:   EffectiveLang(s.Get(0)),
			Rule:   "default",
			Dir:    a.profile.Table.Default.Dir,
			Font:   a.profile.Table.Default.Font.String(),
			Strong: FirstStrong(text),
			Text:   text,
		}

		if r, ok := a.profile.Table.Lookup(f.Lang); ok {
			f.Rule = r.Lang
			f.Dir = r.Dir
			if len(r.Font) > 0 {
				f.Font = r.Font.String()
			}
		}
		if f.Font == "" {
			f.Font = styleProperty(s, "font-family")
		}

		out = append(out, f)
	})

	return out
}

// FirstStrong returns rtl or ltr for the first strongly directional
// character of s.
func FirstStrong(s string) rules.Direction {
	for _, r := range s {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.L:
			return rules.DirLTR
		case bidi.R, bidi.AL:
			return rules.DirRTL
		}
	}

	return ""
}
