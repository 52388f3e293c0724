// Package adjuster applies language-support styling to a parsed catalog
// page: a font on the bibliographic containers, dir="auto" on every
// vernacular element, and per-language direction and font overrides.
//
// A pass is synchronous and one-shot. Missing targets are skipped, and
// running a pass twice leaves the document as one pass did.
package adjuster

import (
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/enabling-languages/vernacular/internal/rules"
)

type Logger interface {
	Debugf(string, ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

type Adjuster struct {
	profile rules.Profile
	marker  cascadia.Selector
	log     Logger
}

type Result struct {
	ContainersStyled  int
	MissingContainers []string
	Marked            int
	Overridden        map[string]int
}

// OverrideTotal is the number of override applications across all rules.
func (r Result) OverrideTotal() int {
	n := 0
	for _, v := range r.Overridden {
		n += v
	}

	return n
}

func (r Result) String() string {
	langs := make([]string, 0, len(r.Overridden))
	for l := range r.Overridden {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	s := fmt.Sprintf("containers=%d vernacular=%d", r.ContainersStyled, r.Marked)
	for _, l := range langs {
		s += fmt.Sprintf(" %s=%d", l, r.Overridden[l])
	}
	if len(r.MissingContainers) > 0 {
		s += fmt.Sprintf(" missing=%v", r.MissingContainers)
	}

	return s
}

func New(p rules.Profile, log Logger) (*Adjuster, error) {
	if p.Marker == "" {
		p.Marker = rules.DefaultMarker
	}

	sel, err := cascadia.Compile(p.Marker)
	if err != nil {
		return nil, fmt.Errorf("marker selector %q: %w", p.Marker, err)
	}

	if err := p.Table.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = nopLogger{}
	}

	return &Adjuster{profile: p, marker: sel, log: log}, nil
}

func (a *Adjuster) Profile() rules.Profile {
	return a.profile
}

func (a *Adjuster) Apply(doc *goquery.Document) Result {
	res := Result{Overridden: map[string]int{}}

	a.styleContainers(doc, &res)

	marked := doc.FindMatcher(a.marker)
	res.Marked = marked.Length()

	def := a.profile.Table.Default
	marked.Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("dir", string(def.Dir))
		if len(def.Font) > 0 {
			setStyleProperty(s, "font-family", def.Font.CSS())
		}
	})

	for _, rule := range a.profile.Table.Overrides {
		want := rules.CanonicalLang(rule.Lang)
		marked.Each(func(_ int, s *goquery.Selection) {
			if rules.CanonicalLang(EffectiveLang(s.Get(0))) != want {
				return
			}
			s.SetAttr("dir", string(rule.Dir))
			if len(rule.Font) > 0 {
				setStyleProperty(s, "font-family", rule.Font.CSS())
			}
			res.Overridden[rule.Lang]++
		})
	}

	a.log.Debugf("adjuster: %s\n", res)
	return res
}

func (a *Adjuster) styleContainers(doc *goquery.Document, res *Result) {
	if len(a.profile.ContainerFont) == 0 {
		return
	}
	font := a.profile.ContainerFont.CSS()

	for _, id := range a.profile.Containers {
		el := findByID(doc, id)
		if el == nil {
			a.log.Debugf("adjuster: no element with id %q, skipping\n", id)
			res.MissingContainers = append(res.MissingContainers, id)
			continue
		}
		setStyleProperty(el, "font-family", font)
		res.ContainersStyled++
	}
}

// findByID mirrors getElementById: first element in document order.
func findByID(doc *goquery.Document, id string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("id"); v == id {
			found = s
			return false
		}
		return true
	})

	return found
}
