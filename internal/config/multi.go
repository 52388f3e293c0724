package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLabel is the config created by `config init` and the one the
// store falls back to when the active config is removed.
const DefaultLabel = "Default"

var (
	ErrNoConfig  = errors.New("no config selected")
	ErrBadLabel  = errors.New("invalid config label")
	ErrNotFound  = errors.New("config does not exist")
	ErrDuplicate = errors.New("config already exists")
)

func ConfigRoot() string {
	if dir := os.Getenv("VERNACULAR_HOME"); dir != "" {
		return dir
	}

	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "vernacular")
	}

	// Linux/macOS XDG
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vernacular")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vernacular")
}

func ConfigsDir() string {
	return filepath.Join(ConfigRoot(), "configs")
}

func CurrentLabelFile() string {
	return filepath.Join(ConfigRoot(), "current_config")
}

// labelPath maps a label to its YAML file. Labels are plain file names:
// no separators, no leading dot.
func labelPath(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" || strings.HasPrefix(label, ".") || strings.ContainsAny(label, `/\:`) {
		return "", fmt.Errorf("%w: %q", ErrBadLabel, label)
	}
	return filepath.Join(ConfigsDir(), label+".yaml"), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func ensureDirs() error {
	return os.MkdirAll(ConfigsDir(), 0755)
}

// ConfigPathByLabel returns the file of an existing config.
func ConfigPathByLabel(label string) (string, error) {
	path, err := labelPath(label)
	if err != nil {
		return "", err
	}
	if !exists(path) {
		return "", fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return path, nil
}

func CurrentLabel() (string, error) {
	b, err := os.ReadFile(CurrentLabelFile())
	if os.IsNotExist(err) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(b)), nil
}

func setCurrent(label string) error {
	if err := ensureDirs(); err != nil {
		return err
	}
	return os.WriteFile(CurrentLabelFile(), []byte(label), 0644)
}

func ActiveConfigPath() (string, error) {
	label, err := CurrentLabel()
	if err != nil || label == "" {
		return "", ErrNoConfig
	}

	return labelPath(label)
}

type ConfigInfo struct {
	Label   string
	Path    string
	Profile string
	Active  bool
}

func ListConfigs() ([]ConfigInfo, error) {
	if err := ensureDirs(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(ConfigsDir())
	if err != nil {
		return nil, err
	}

	activeLabel, _ := CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		label, ok := strings.CutSuffix(e.Name(), ".yaml")
		if e.IsDir() || !ok {
			continue
		}

		path := filepath.Join(ConfigsDir(), e.Name())
		out = append(out, ConfigInfo{
			Label:   label,
			Path:    path,
			Profile: ProfileOf(path),
			Active:  label == activeLabel,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// ProfileOf reports the rule profile a stored config selects, "?" when the
// file cannot be read.
func ProfileOf(path string) string {
	c, err := loadYAML(path)
	if err != nil {
		return "?"
	}
	normalizeDefaults(c)
	return c.Profile
}

func SwitchConfig(label string) error {
	if _, err := ConfigPathByLabel(label); err != nil {
		return err
	}

	return setCurrent(strings.TrimSpace(label))
}

// AddConfig imports srcPath under label after checking it decodes as a
// config.
func AddConfig(label, srcPath string) error {
	dst, err := labelPath(label)
	if err != nil {
		return err
	}
	if exists(dst) {
		return fmt.Errorf("%w: %q", ErrDuplicate, label)
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}

	var probe Config
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%s is not a valid config: %w", srcPath, err)
	}

	if err := ensureDirs(); err != nil {
		return err
	}
	return os.WriteFile(dst, raw, 0644)
}

// CreateConfig writes cfg as a new config under label.
func CreateConfig(label string, cfg *Config) (string, error) {
	path, err := labelPath(label)
	if err != nil {
		return "", err
	}
	if exists(path) {
		return "", fmt.Errorf("%w: %q", ErrDuplicate, label)
	}
	if err := ensureDirs(); err != nil {
		return "", err
	}

	if err := SaveYAML(cfg, path); err != nil {
		return "", err
	}

	return path, nil
}

func RenameConfig(oldLabel, newLabel string) error {
	oldPath, err := ConfigPathByLabel(oldLabel)
	if err != nil {
		return err
	}
	newPath, err := labelPath(newLabel)
	if err != nil {
		return err
	}
	if exists(newPath) {
		return fmt.Errorf("%w: %q", ErrDuplicate, newLabel)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}

	if active, _ := CurrentLabel(); active == strings.TrimSpace(oldLabel) {
		return setCurrent(strings.TrimSpace(newLabel))
	}

	return nil
}

// RemoveConfig deletes a config. Removing the active one needs force and
// makes DefaultLabel active; the label switched to is returned ("" when
// the active config did not change).
func RemoveConfig(label string, force bool) (string, error) {
	label = strings.TrimSpace(label)
	if label == DefaultLabel {
		return "", fmt.Errorf("cannot remove the %s config", DefaultLabel)
	}

	path, err := ConfigPathByLabel(label)
	if err != nil {
		return "", err
	}

	fallback := ""
	if active, _ := CurrentLabel(); active == label {
		if !force {
			return "", fmt.Errorf("config %q is active", label)
		}
		if err := SwitchConfig(DefaultLabel); err != nil {
			return "", fmt.Errorf("failed switching to %s: %w", DefaultLabel, err)
		}
		fallback = DefaultLabel
	}

	return fallback, os.Remove(path)
}

// InitDefaultConfig creates the DefaultLabel config from DefaultConfig and
// makes it active. If it already exists it is only activated and
// os.ErrExist is returned with its path.
func InitDefaultConfig() (string, error) {
	path, err := labelPath(DefaultLabel)
	if err != nil {
		return "", err
	}

	if !exists(path) {
		if path, err = CreateConfig(DefaultLabel, DefaultConfig()); err != nil {
			return "", err
		}
	} else {
		err = os.ErrExist
	}

	if serr := setCurrent(DefaultLabel); serr != nil {
		return "", serr
	}
	return path, err
}
