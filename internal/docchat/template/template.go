// Package template loads TOML query templates. A template wraps the user's
// question before it is submitted, e.g.
//
//	query = "Answer briefly: {{input}} (deck: {{deck}})"
//	mode = "ppt"
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Template represents the structure of a TOML template file
type Template struct {
	Query string  `toml:"query"`
	Mode  *string `toml:"mode,omitempty"`
}

// LoadTemplate loads a template file and returns its contents
func LoadTemplate(filePath string) (*Template, error) {
	var tmpl Template
	if _, err := toml.DecodeFile(filePath, &tmpl); err != nil {
		return nil, fmt.Errorf("error decoding template file: %v", err)
	}
	if strings.TrimSpace(tmpl.Query) == "" {
		return nil, fmt.Errorf("template file %s has an empty query", filePath)
	}
	return &tmpl, nil
}

// Entry is a template found in one of the template directories.
type Entry struct {
	Name string // relative path without the .toml extension, slash separated
	Dir  string // directory the template was found in
}

// ListTemplates recursively scans dirs for .toml files. When the same name
// exists in several directories the later directory wins.
func ListTemplates(dirs []string) ([]Entry, error) {
	found := make(map[string]string)

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(info.Name(), ".toml") {
				return nil
			}

			relPath, err := filepath.Rel(dir, path)
			if err != nil {
				return nil
			}
			name := filepath.ToSlash(strings.TrimSuffix(relPath, ".toml"))
			found[name] = dir
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking template directory %s: %w", dir, err)
		}
	}

	entries := make([]Entry, 0, len(found))
	for name, dir := range found {
		entries = append(entries, Entry{Name: name, Dir: dir})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}
