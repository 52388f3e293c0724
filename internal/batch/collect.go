package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Input is one page to rewrite. Rel is the path written under the output
// directory: relative to the directory argument it was found in, or the
// base name for files given directly.
type Input struct {
	Path string
	Rel  string
}

func isHTML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// Collect expands files and directories into a sorted, de-duplicated list
// of HTML inputs. Files named explicitly are taken whatever their
// extension; directories are walked for .html/.htm/.xhtml.
func Collect(args []string) ([]Input, error) {
	seen := map[string]bool{}
	var out []Input

	add := func(path, rel string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		out = append(out, Input{Path: path, Rel: rel})
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}

		if !info.IsDir() {
			add(arg, filepath.Base(arg))
			continue
		}

		root := arg
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isHTML(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			add(path, rel)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
