// Package userscript renders the adjuster as an installable userscript and
// evaluates the @match patterns userscript managers use to decide where a
// script runs.
package userscript

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ErrBadPattern = errors.New("bad match pattern")

type Metadata struct {
	Name        string
	Namespace   string
	Version     string
	Description string
	Author      string
	Match       []string
	Grant       string
	Require     []string
}

func DefaultMetadata() Metadata {
	return Metadata{
		Name:        "Catalog Language Support",
		Namespace:   "https://enabling-languages.github.io/",
		Version:     "0.2",
		Description: "Improve non-English text display in library catalogs",
		Author:      "Enabling Languages",
		Grant:       "none",
	}
}

// Header renders the ==UserScript== block.
func (m Metadata) Header() string {
	var b strings.Builder
	line := func(key, val string) {
		if val != "" {
			fmt.Fprintf(&b, "// @%-12s %s\n", key, val)
		}
	}

	b.WriteString("// ==UserScript==\n")
	line("name", m.Name)
	line("namespace", m.Namespace)
	line("version", m.Version)
	line("description", m.Description)
	line("author", m.Author)
	for _, p := range m.Match {
		line("match", p)
	}
	grant := m.Grant
	if grant == "" {
		grant = "none"
	}
	line("grant", grant)
	for _, r := range m.Require {
		line("require", r)
	}
	b.WriteString("// ==/UserScript==\n")

	return b.String()
}

// Pattern is a compiled @match pattern: scheme://host/path where scheme may
// be "*" (http or https), host may start with "*." and path may contain "*".
type Pattern struct {
	raw    string
	scheme string
	host   string
	path   *regexp.Regexp
}

func (p Pattern) String() string { return p.raw }

func Compile(pattern string) (Pattern, error) {
	raw := strings.TrimSpace(pattern)
	if raw == "<all_urls>" {
		return Pattern{raw: raw, scheme: "*", host: "*", path: regexp.MustCompile(`^.*$`)}, nil
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Pattern{}, fmt.Errorf("%w %q: missing scheme separator", ErrBadPattern, pattern)
	}
	switch scheme {
	case "*", "http", "https":
	default:
		return Pattern{}, fmt.Errorf("%w %q: unsupported scheme %q", ErrBadPattern, pattern, scheme)
	}

	host, path, ok := strings.Cut(rest, "/")
	if !ok {
		return Pattern{}, fmt.Errorf("%w %q: missing path", ErrBadPattern, pattern)
	}
	if host == "" || (strings.Contains(host, "*") && host != "*" && !strings.HasPrefix(host, "*.")) ||
		strings.Contains(strings.TrimPrefix(host, "*."), "*") {
		return Pattern{}, fmt.Errorf("%w %q: bad host %q", ErrBadPattern, pattern, host)
	}

	parts := strings.Split("/"+path, "*")
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}

	return Pattern{
		raw:    raw,
		scheme: scheme,
		host:   strings.ToLower(host),
		path:   regexp.MustCompile("^" + strings.Join(parts, ".*") + "$"),
	}, nil
}

func (p Pattern) Matches(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	switch p.scheme {
	case "*":
		if u.Scheme != "http" && u.Scheme != "https" {
			return false
		}
	default:
		if u.Scheme != p.scheme {
			return false
		}
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case p.host == "*":
	case strings.HasPrefix(p.host, "*."):
		base := p.host[2:]
		if host != base && !strings.HasSuffix(host, "."+base) {
			return false
		}
	default:
		if host != p.host {
			return false
		}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return p.path.MatchString(path)
}

// MatchAny reports whether rawURL matches one of patterns. An empty
// pattern list matches nothing.
func MatchAny(patterns []string, rawURL string) (bool, error) {
	for _, s := range patterns {
		p, err := Compile(s)
		if err != nil {
			return false, err
		}
		if p.Matches(rawURL) {
			return true, nil
		}
	}

	return false, nil
}
