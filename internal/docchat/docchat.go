// Package docchat provides the core abstractions for the document chat client.
// This package defines the query modes offered by the backend and the Dispatcher
// interface the session controller uses to reach them.
package docchat

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Mode identifies one of the backend query front-ends.
type Mode string

const (
	ModeTextToMongo Mode = "text-to-mongo"
	ModePDFChat     Mode = "pdf-chat"
	ModePPTChat     Mode = "ppt-chat"
)

// modeAliases maps short names accepted on the command line to modes.
var modeAliases = map[string]Mode{
	"text-to-mongo": ModeTextToMongo,
	"mongo":         ModeTextToMongo,
	"db":            ModeTextToMongo,
	"pdf-chat":      ModePDFChat,
	"pdf":           ModePDFChat,
	"ppt-chat":      ModePPTChat,
	"ppt":           ModePPTChat,
}

// Modes returns all modes in navigation order.
func Modes() []Mode {
	return []Mode{ModeTextToMongo, ModePDFChat, ModePPTChat}
}

// Title returns the human-readable name of the mode.
func (m Mode) Title() string {
	switch m {
	case ModeTextToMongo:
		return "Text-to-Mongo"
	case ModePDFChat:
		return "PDF Chat"
	case ModePPTChat:
		return "PPT Chat"
	default:
		return string(m)
	}
}

// Aliases returns the alternative names accepted for the mode.
func (m Mode) Aliases() []string {
	var aliases []string
	for alias, mode := range modeAliases {
		if mode == m && alias != string(m) {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// Conversational reports whether the mode keeps a multi-turn history.
// Text-to-Mongo keeps a single exchange only.
func (m Mode) Conversational() bool {
	return m != ModeTextToMongo
}

// Markdown reports whether assistant answers for the mode are markdown.
func (m Mode) Markdown() bool {
	return m != ModeTextToMongo
}

// ParseMode parses a mode name or alias.
//
// Example:
//
//	mode, err := ParseMode("ppt")
//	// mode = ModePPTChat
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return "", fmt.Errorf("mode cannot be empty")
	}
	mode, ok := modeAliases[name]
	if !ok {
		return "", fmt.Errorf("unknown mode: %s (expected one of: %s)", s, strings.Join(ModeNames(), ", "))
	}
	return mode, nil
}

// ParseModes parses a comma-separated list of modes, keeping the given order
// and dropping duplicates.
func ParseModes(s string) ([]Mode, error) {
	var modes []Mode
	seen := make(map[Mode]bool)
	for _, part := range strings.Split(s, ",") {
		mode, err := ParseMode(part)
		if err != nil {
			return nil, err
		}
		if seen[mode] {
			continue
		}
		seen[mode] = true
		modes = append(modes, mode)
	}
	return modes, nil
}

// ModeNames returns the canonical names of all modes.
func ModeNames() []string {
	var names []string
	for _, m := range Modes() {
		names = append(names, string(m))
	}
	return names
}

// Dispatcher performs exactly one request/response exchange with a backend
// query endpoint. Implementations must not retry.
type Dispatcher interface {
	Dispatch(ctx context.Context, query string) (string, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, query string) (string, error)

// Dispatch calls f(ctx, query).
func (f DispatcherFunc) Dispatch(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}
