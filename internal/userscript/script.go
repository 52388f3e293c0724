package userscript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/enabling-languages/vernacular/internal/rules"
)

var scriptTmpl = template.Must(template.New("script").Parse(`(function() {
    'use strict';

    const containers = {{.Containers}};
    const containerFont = {{.ContainerFont}};
    const marker = {{.Marker}};
    const fallback = {{.Default}};
    const overrides = {{.Overrides}};

    const effectiveLang = el => {
        const decl = el.closest('[lang]');
        return decl ? decl.getAttribute('lang').trim().toLowerCase().replace(/_/g, '-') : '';
    };

    const summary = {containers: 0, missing: [], marked: 0, overridden: {}};

    if (containerFont) {
        containers.forEach(id => {
            const elem = document.getElementById(id);
            if (!elem) {
                summary.missing.push(id);
                return;
            }
            elem.style.fontFamily = containerFont;
            summary.containers++;
        });
    }

    const verns = document.querySelectorAll(marker);
    summary.marked = verns.length;
    verns.forEach(vern => {
        vern.setAttribute('dir', fallback.dir);
        if (fallback.font) vern.style.fontFamily = fallback.font;
    });

    /*
     * Language and script specific rules
     */
    overrides.forEach(rule => {
        verns.forEach(vern => {
            if (effectiveLang(vern) !== rule.lang) return;
            vern.setAttribute('dir', rule.dir);
            if (rule.font) vern.style.fontFamily = rule.font;
            summary.overridden[rule.lang] = (summary.overridden[rule.lang] || 0) + 1;
        });
    });

    return summary;
})();
`))

type jsRule struct {
	Lang string `json:"lang,omitempty"`
	Dir  string `json:"dir"`
	Font string `json:"font,omitempty"`
}

func toJSRule(r rules.Rule) jsRule {
	return jsRule{
		Lang: rules.CanonicalLang(r.Lang),
		Dir:  string(r.Dir),
		Font: r.Font.CSS(),
	}
}

// Script renders profile p as a self-contained JavaScript IIFE that
// performs the same pass as adjuster.Apply against the live DOM and
// evaluates to a summary object.
func Script(p rules.Profile) (string, error) {
	if err := p.Table.Validate(); err != nil {
		return "", err
	}
	if p.Marker == "" {
		p.Marker = rules.DefaultMarker
	}

	overrides := make([]jsRule, 0, len(p.Table.Overrides))
	for _, r := range p.Table.Overrides {
		overrides = append(overrides, toJSRule(r))
	}

	containers := p.Containers
	if containers == nil {
		containers = []string{}
	}

	data := map[string]string{}
	for key, v := range map[string]any{
		"Containers":    containers,
		"ContainerFont": p.ContainerFont.CSS(),
		"Marker":        p.Marker,
		"Default":       toJSRule(p.Table.Default),
		"Overrides":     overrides,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", key, err)
		}
		data[key] = string(b)
	}

	var buf bytes.Buffer
	if err := scriptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Render produces a complete .user.js file. When meta carries no @match
// lines the profile's patterns are used.
func Render(meta Metadata, p rules.Profile) (string, error) {
	if len(meta.Match) == 0 {
		meta.Match = p.Match
	}
	if len(meta.Match) == 0 {
		return "", fmt.Errorf("%w: no @match pattern for profile %q", ErrBadPattern, p.Name)
	}
	for _, m := range meta.Match {
		if _, err := Compile(m); err != nil {
			return "", err
		}
	}

	body, err := Script(p)
	if err != nil {
		return "", err
	}

	return meta.Header() + "\n" + body, nil
}
