package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/enabling-languages/vernacular/internal/rules"
)

type RuleConfig struct {
	Lang string `yaml:"lang"`
	Dir  string `yaml:"dir"`
	Font string `yaml:"font,omitempty"`
}

type Config struct {
	Profile       string       `yaml:"profile"`
	Containers    []string     `yaml:"containers,omitempty"`
	ContainerFont string       `yaml:"container_font,omitempty"`
	MarkerClass   string       `yaml:"marker_class,omitempty"`
	Rules         []RuleConfig `yaml:"rules,omitempty"`
	Match         []string     `yaml:"match,omitempty"`

	Output     string `yaml:"output"`
	InPlace    bool   `yaml:"in_place"`
	Workers    int    `yaml:"workers"`
	Debug      bool   `yaml:"debug"`
	SkipBroken bool   `yaml:"skip_broken"`

	Timeout    time.Duration `yaml:"timeout"`
	Cookie     string        `yaml:"cookie"`
	CookieFile string        `yaml:"cookie_file"`
	UserAgent  string        `yaml:"user_agent"`
	CFBypass   bool          `yaml:"cf_bypass"`
}

type Options struct {
	IgnoreConfig  bool
	Debug         bool
	Profile       string
	ContainerFont string
	MarkerClass   string
	Output        string
	InPlace       bool
	Workers       int
	SkipBroken    bool
	Timeout       time.Duration
	Cookie        string
	CookieFile    string
	UserAgent     string
	CFBypass      bool
}

func DefaultConfig() *Config {
	return &Config{
		Profile:    rules.DefaultProfile,
		Output:     "vernacular-out",
		InPlace:    false,
		Workers:    4,
		Debug:      false,
		SkipBroken: false,
		Timeout:    30 * time.Second,
		Cookie:     "",
		CookieFile: "",
		UserAgent:  "",
		CFBypass:   false,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `vernacular config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Profile != "" {
		c.Profile = o.Profile
	}
	if o.ContainerFont != "" {
		c.ContainerFont = o.ContainerFont
	}
	if o.MarkerClass != "" {
		c.MarkerClass = o.MarkerClass
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.InPlace {
		c.InPlace = true
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.Debug {
		c.Debug = true
	}
	if o.SkipBroken {
		c.SkipBroken = true
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.CFBypass {
		c.CFBypass = true
	}
}

func normalizeDefaults(c *Config) {
	if c.Profile == "" {
		c.Profile = rules.DefaultProfile
	}
	if c.Output == "" {
		c.Output = "vernacular-out"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// ResolveProfile starts from the named built-in profile and layers the
// config's own containers, fonts, marker and rules on top.
func (c *Config) ResolveProfile() (rules.Profile, error) {
	p, err := rules.ProfileByName(c.Profile)
	if err != nil {
		return rules.Profile{}, err
	}

	if len(c.Containers) > 0 {
		p.Containers = append([]string(nil), c.Containers...)
	}
	if c.ContainerFont != "" {
		p.ContainerFont = rules.ParseFontStack(c.ContainerFont)
	}
	if c.MarkerClass != "" {
		p.Marker = markerSelector(c.MarkerClass)
	}
	if len(c.Match) > 0 {
		p.Match = append([]string(nil), c.Match...)
	}

	extra := make([]rules.Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		dir, err := rules.ParseDirection(rc.Dir)
		if err != nil {
			return rules.Profile{}, fmt.Errorf("rules[%d]: %w", i, err)
		}
		extra = append(extra, rules.Rule{
			Lang: strings.TrimSpace(rc.Lang),
			Dir:  dir,
			Font: rules.ParseFontStack(rc.Font),
		})
	}
	p.Table = p.Table.With(extra...)

	if err := p.Table.Validate(); err != nil {
		return rules.Profile{}, err
	}

	return p, nil
}

// markerSelector accepts a bare class name ("vernacular") or a full
// selector (".vernacular", "[data-vern]").
func markerSelector(s string) string {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, ".#[:> ") {
		return s
	}

	return "." + s
}

func (c *Config) Print() {
	fmt.Printf(" -profile: %s\n", c.Profile)
	if len(c.Containers) > 0 {
		fmt.Printf(" -containers: %s\n", strings.Join(c.Containers, ", "))
	}
	if c.ContainerFont != "" {
		fmt.Printf(" -container_font: %s\n", c.ContainerFont)
	}
	if c.MarkerClass != "" {
		fmt.Printf(" -marker_class: %s\n", c.MarkerClass)
	}
	for _, r := range c.Rules {
		fmt.Printf(" -rule: %s dir=%s font=%s\n", r.Lang, r.Dir, r.Font)
	}
	if len(c.Match) > 0 {
		fmt.Printf(" -match: %s\n", strings.Join(c.Match, ", "))
	}
	if c.Output != "" {
		fmt.Printf(" -output: %s\n", c.Output)
	}
	if c.InPlace {
		fmt.Printf(" -in_place: %t\n", c.InPlace)
	}
	fmt.Printf(" -workers: %d\n", c.Workers)
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	if c.SkipBroken {
		fmt.Printf(" -skip_broken: %t\n", c.SkipBroken)
	}
	fmt.Printf(" -timeout: %s\n", c.Timeout)
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	if c.CFBypass {
		fmt.Printf(" -cf_bypass: %t\n", c.CFBypass)
	}
}
