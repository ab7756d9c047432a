package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/longkey1/docchat/internal/docchat"
)

// FormatQuery formats the question with the named template if specified.
// Returns the formatted query and the mode specified in the template (if any).
func FormatQuery(input string, name string, dirs []string, args []string) (string, *docchat.Mode, error) {
	if name == "" {
		return input, nil, nil
	}

	file := name
	if !strings.HasSuffix(file, ".toml") {
		file = file + ".toml"
	}

	// Later directories take precedence
	var path string
	for _, dir := range dirs {
		candidate := filepath.Join(dir, file)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path == "" {
		return "", nil, fmt.Errorf("template file '%s' not found in any of the template directories: %v", file, dirs)
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		return "", nil, fmt.Errorf("error loading template file: %v", err)
	}

	argMap, err := processArgs(args)
	if err != nil {
		return "", nil, fmt.Errorf("error processing arguments: %v", err)
	}

	keys := make([]string, 0, len(argMap))
	for key := range argMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Single pass: substituted text is never scanned for placeholders again
	pairs := []string{"{{input}}", input}
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("{{%s}}", key), argMap[key])
	}
	query := strings.NewReplacer(pairs...).Replace(tmpl.Query)

	var mode *docchat.Mode
	if tmpl.Mode != nil {
		m, err := docchat.ParseMode(*tmpl.Mode)
		if err != nil {
			return "", nil, fmt.Errorf("invalid mode in template: %w", err)
		}
		mode = &m
	}

	return query, mode, nil
}

// processArgs processes the command line arguments and returns a map of key-value pairs
func processArgs(args []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			arg = strings.Trim(arg, `"`)
		}

		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid argument format: %s. Expected format: key:value", arg)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		value = strings.ReplaceAll(value, `\:`, ":")
		value = strings.ReplaceAll(value, `\"`, `"`)

		if key == "input" {
			return nil, fmt.Errorf("'input' is a reserved keyword and cannot be used as a key")
		}
		result[key] = value
	}
	return result, nil
}
