package adjuster

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enabling-languages/vernacular/internal/rules"
)

func parse(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func newAdjuster(t *testing.T, profile string) *Adjuster {
	t.Helper()
	p, err := rules.ProfileByName(profile)
	require.NoError(t, err)
	a, err := New(p, nil)
	require.NoError(t, err)
	return a
}

func render(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	out, err := goquery.OuterHtml(doc.Selection)
	require.NoError(t, err)
	return out
}

const arabicStack = `"Scheherazade New", Amiri`

func TestArabicInsideDetails(t *testing.T) {
	doc := parse(t, `<div id="details"><span class="vernacular" lang="ar">نص</span></div>`)
	res := newAdjuster(t, "worldcat").Apply(doc)

	assert.Equal(t, `"Gentium Plus"`, styleProperty(doc.Find("#details"), "font-family"))

	span := doc.Find("span.vernacular")
	assert.Equal(t, "rtl", span.AttrOr("dir", ""))
	assert.Equal(t, arabicStack, styleProperty(span, "font-family"))

	assert.Equal(t, 1, res.ContainersStyled)
	assert.Equal(t, []string{"bibdata"}, res.MissingContainers)
	assert.Equal(t, 1, res.Marked)
	assert.Equal(t, 1, res.Overridden["ar"])
}

func TestNoOverrideGetsAuto(t *testing.T) {
	doc := parse(t, `<div id="bibdata"><span class="vernacular" lang="fr">texte</span></div>`)
	res := newAdjuster(t, "worldcat").Apply(doc)

	span := doc.Find("span.vernacular")
	assert.Equal(t, "auto", span.AttrOr("dir", ""))
	_, hasStyle := span.Attr("style")
	assert.False(t, hasStyle, "no font override for languages without a rule")
	assert.Zero(t, res.OverrideTotal())
}

func TestPersianAndInheritedLanguage(t *testing.T) {
	doc := parse(t, `
<div id="bibdata" lang="fa">
  <p><span class="vernacular" id="inherited">کتاب</span></p>
  <span class="vernacular" lang="en" id="own">Book</span>
  <span class="vernacular" lang="" id="unknown">?</span>
</div>`)
	newAdjuster(t, "worldcat").Apply(doc)

	assert.Equal(t, "rtl", doc.Find("#inherited").AttrOr("dir", ""))
	assert.Equal(t, arabicStack, styleProperty(doc.Find("#inherited"), "font-family"))
	assert.Equal(t, "auto", doc.Find("#own").AttrOr("dir", ""))
	assert.Equal(t, "auto", doc.Find("#unknown").AttrOr("dir", ""))
}

func TestRegionSubtagDoesNotMatch(t *testing.T) {
	doc := parse(t, `<span class="vernacular" lang="ar-EG">نص</span><span class="vernacular" lang="AR">نص</span>`)
	res := newAdjuster(t, "worldcat").Apply(doc)

	spans := doc.Find("span.vernacular")
	assert.Equal(t, "auto", spans.Eq(0).AttrOr("dir", ""))
	assert.Equal(t, "rtl", spans.Eq(1).AttrOr("dir", ""))
	assert.Equal(t, 1, res.Overridden["ar"])
}

func TestThreeLetterCodesDoNotMatch(t *testing.T) {
	doc := parse(t, `<div id="details">
<span class="vernacular" lang="ara" id="ara">نص</span>
<span class="vernacular" lang="per" id="per">کتاب</span>
<span class="vernacular" lang="fas" id="fas">کتاب</span>
<span class="vernacular" lang="AR" id="upper">نص</span></div>`)
	res := newAdjuster(t, "worldcat").Apply(doc)

	for _, id := range []string{"ara", "per", "fas"} {
		s := doc.Find("#" + id)
		assert.Equal(t, "auto", s.AttrOr("dir", ""), id)
		_, styled := s.Attr("style")
		assert.False(t, styled, id)
	}
	assert.Equal(t, "rtl", doc.Find("#upper").AttrOr("dir", ""))
	assert.Equal(t, 1, res.Overridden["ar"])
	assert.Equal(t, 0, res.Overridden["fa"])
}

func TestJQueryProfileSkipsPersian(t *testing.T) {
	doc := parse(t, `<div id="bibdata"><span class="vernacular" lang="fa">کتاب</span></div>`)
	newAdjuster(t, "worldcat-jquery").Apply(doc)

	assert.Equal(t, `"Charis SIL"`, styleProperty(doc.Find("#bibdata"), "font-family"))
	assert.Equal(t, "auto", doc.Find(".vernacular").AttrOr("dir", ""))
}

func TestIdempotent(t *testing.T) {
	src := `<html lang="en"><body>
<div id="bibdata" style="color: red; font-family: Arial"><span class="vernacular" lang="ar" style="font-size: 12px">نص</span></div>
<div id="details"><span class="vernacular" lang="fa">کتاب</span><span class="vernacular">x</span></div>
</body></html>`

	a := newAdjuster(t, "worldcat")

	once := parse(t, src)
	a.Apply(once)

	twice := parse(t, src)
	a.Apply(twice)
	a.Apply(twice)

	assert.Equal(t, render(t, once), render(t, twice))
	assert.Equal(t, `color: red; font-family: "Gentium Plus";`, once.Find("#bibdata").AttrOr("style", ""))
	assert.Equal(t, `font-size: 12px; font-family: `+arabicStack+`;`, once.Find("#bibdata .vernacular").AttrOr("style", ""))
}

func TestMissingContainersLeaveOtherFontsAlone(t *testing.T) {
	doc := parse(t, `<div id="other" style="font-family: Times"><p>plain</p></div>`)
	res := newAdjuster(t, "worldcat").Apply(doc)

	assert.Equal(t, "Times", styleProperty(doc.Find("#other"), "font-family"))
	assert.Zero(t, res.ContainersStyled)
	assert.ElementsMatch(t, []string{"bibdata", "details"}, res.MissingContainers)
	assert.Zero(t, res.Marked)
}

func TestFirstElementWithIDWins(t *testing.T) {
	doc := parse(t, `<div id="details" class="a"></div><div id="details" class="b"></div>`)
	newAdjuster(t, "worldcat").Apply(doc)

	assert.NotEmpty(t, doc.Find(".a").AttrOr("style", ""))
	_, styled := doc.Find(".b").Attr("style")
	assert.False(t, styled)
}

func TestCustomMarkerAndRules(t *testing.T) {
	p, err := rules.ProfileByName("worldcat")
	require.NoError(t, err)
	p.Marker = "[data-vern]"
	p.Table = p.Table.With(rules.Rule{Lang: "he", Dir: rules.DirRTL, Font: rules.FontStack{"Ezra SIL"}})

	a, err := New(p, nil)
	require.NoError(t, err)

	doc := parse(t, `<p data-vern lang="he">שלום</p><p class="vernacular" lang="he">שלום</p>`)
	res := a.Apply(doc)

	assert.Equal(t, 1, res.Marked)
	assert.Equal(t, "rtl", doc.Find("[data-vern]").AttrOr("dir", ""))
	assert.Equal(t, `"Ezra SIL"`, styleProperty(doc.Find("[data-vern]"), "font-family"))
	_, touched := doc.Find(".vernacular").Attr("dir")
	assert.False(t, touched)
}

func TestNewRejectsBadInput(t *testing.T) {
	p, err := rules.ProfileByName("worldcat")
	require.NoError(t, err)

	bad := p
	bad.Marker = "div["
	_, err = New(bad, nil)
	assert.Error(t, err)

	bad = p
	bad.Table = rules.Table{Overrides: []rules.Rule{{Lang: "", Dir: rules.DirRTL}}}
	_, err = New(bad, nil)
	assert.ErrorIs(t, err, rules.ErrInvalidRule)
}

func TestSetStylePropertyKeepsOthers(t *testing.T) {
	doc := parse(t, `<p style="color: blue; FONT-FAMILY: serif !important; margin: 0">x</p>`)
	p := doc.Find("p")

	setStyleProperty(p, "font-family", "Amiri")
	assert.Equal(t, "color: blue; font-family: Amiri; margin: 0;", p.AttrOr("style", ""))
}

func TestSetStylePropertyWithoutTrailingSemicolon(t *testing.T) {
	cases := map[string]string{
		"color: red":             "color: red; font-family: Amiri;",
		"text-align: right":      "text-align: right; font-family: Amiri;",
		"margin: 0; color: #333": "margin: 0; color: #333; font-family: Amiri;",
		"color: red; margin: 0":  "color: red; margin: 0; font-family: Amiri;",
	}
	for in, want := range cases {
		doc := parse(t, `<p>x</p>`)
		p := doc.Find("p")
		p.SetAttr("style", in)

		setStyleProperty(p, "font-family", "Amiri")
		assert.Equal(t, want, p.AttrOr("style", ""), in)
	}
}

func TestSetStylePropertyKeepsDataURL(t *testing.T) {
	doc := parse(t, `<div style="background: url(data:image/png;base64,AAA=) no-repeat">x</div>`)
	div := doc.Find("div")

	setStyleProperty(div, "font-family", "Amiri")
	got := div.AttrOr("style", "")
	assert.Contains(t, got, "url(data:image/png;base64,AAA=)")
	assert.Contains(t, got, "no-repeat")
	assert.NotContains(t, got, "background: ;")
	assert.Equal(t, "Amiri", styleProperty(div, "font-family"))
}

func TestApplyKeepsUnrelatedInlineStyles(t *testing.T) {
	doc := parse(t, `<div id="details" style="background: url(data:image/png;base64,AAA=) no-repeat">
<span class="vernacular" lang="ar" style="color: red">نص</span></div>`)
	newAdjuster(t, "worldcat").Apply(doc)

	span := doc.Find("span")
	assert.Equal(t, "color: red; font-family: "+arabicStack+";", span.AttrOr("style", ""))
	assert.Contains(t, doc.Find("#details").AttrOr("style", ""), "url(data:image/png;base64,AAA=)")
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t,
		[]string{"a: url(x;y)", ` content: "p;q"`, " b: 1"},
		splitTopLevel(`a: url(x;y); content: "p;q"; b: 1`))
}

func TestInspect(t *testing.T) {
	doc := parse(t, `<div lang="fa"><span class="vernacular">کتاب 12</span></div>
<span class="vernacular" lang="ru">  Война   и мир </span>
<span class="vernacular" lang="und">123</span>`)
	before := render(t, doc)

	findings := newAdjuster(t, "worldcat").Inspect(doc)
	require.Len(t, findings, 3)

	assert.Equal(t, "fa", findings[0].Lang)
	assert.Equal(t, "fa", findings[0].Rule)
	assert.Equal(t, rules.DirRTL, findings[0].Dir)
	assert.Equal(t, rules.DirRTL, findings[0].Strong)
	assert.Equal(t, "Scheherazade New, Amiri", findings[0].Font)

	assert.Equal(t, "default", findings[1].Rule)
	assert.Equal(t, rules.DirAuto, findings[1].Dir)
	assert.Equal(t, rules.DirLTR, findings[1].Strong)
	assert.Equal(t, "Война и мир", findings[1].Text)

	assert.Equal(t, rules.Direction(""), findings[2].Strong)

	assert.Equal(t, before, render(t, doc), "inspect must not mutate the document")
}

func TestEffectiveLangStopsAtEmpty(t *testing.T) {
	doc := parse(t, `<div lang="ar"><div lang=""><b id="x">x</b></div></div>`)
	assert.Equal(t, "", EffectiveLang(doc.Find("#x").Get(0)))

	doc = parse(t, `<html lang="fa"><body><b id="y">y</b></body></html>`)
	assert.Equal(t, "fa", EffectiveLang(doc.Find("#y").Get(0)))
}
