package docchat

import (
	"context"
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMode Mode
		wantErr  bool
	}{
		{
			name:     "canonical text-to-mongo",
			input:    "text-to-mongo",
			wantMode: ModeTextToMongo,
		},
		{
			name:     "pdf alias",
			input:    "pdf",
			wantMode: ModePDFChat,
		},
		{
			name:     "ppt alias with whitespace and case",
			input:    "  PPT ",
			wantMode: ModePPTChat,
		},
		{
			name:     "db alias",
			input:    "db",
			wantMode: ModeTextToMongo,
		},
		{
			name:    "unknown mode",
			input:   "xls",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseMode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if mode != tt.wantMode {
				t.Errorf("ParseMode() mode = %v, want %v", mode, tt.wantMode)
			}
		})
	}
}

func TestParseModes(t *testing.T) {
	modes, err := ParseModes("ppt,pdf,ppt-chat")
	if err != nil {
		t.Fatalf("ParseModes() error = %v", err)
	}
	want := []Mode{ModePPTChat, ModePDFChat}
	if len(modes) != len(want) {
		t.Fatalf("ParseModes() = %v, want %v", modes, want)
	}
	for i := range want {
		if modes[i] != want[i] {
			t.Errorf("ParseModes()[%d] = %v, want %v", i, modes[i], want[i])
		}
	}

	if _, err := ParseModes("ppt,,pdf"); err == nil {
		t.Error("ParseModes() expected error for empty element")
	}
}

func TestModeProperties(t *testing.T) {
	if ModeTextToMongo.Conversational() || ModeTextToMongo.Markdown() {
		t.Error("text-to-mongo should be a single plain exchange")
	}
	for _, m := range []Mode{ModePDFChat, ModePPTChat} {
		if !m.Conversational() || !m.Markdown() {
			t.Errorf("%s should be conversational markdown", m)
		}
	}
	aliases := ModeTextToMongo.Aliases()
	if len(aliases) != 2 || aliases[0] != "db" || aliases[1] != "mongo" {
		t.Errorf("Aliases() = %v, want [db mongo]", aliases)
	}
}

func TestDispatcherFunc(t *testing.T) {
	wantErr := errors.New("boom")
	d := DispatcherFunc(func(ctx context.Context, query string) (string, error) {
		if query == "fail" {
			return "", wantErr
		}
		return "echo: " + query, nil
	})

	got, err := d.Dispatch(context.Background(), "hi")
	if err != nil || got != "echo: hi" {
		t.Errorf("Dispatch() = %q, %v", got, err)
	}
	if _, err := d.Dispatch(context.Background(), "fail"); !errors.Is(err, wantErr) {
		t.Errorf("Dispatch() error = %v, want %v", err, wantErr)
	}
}
