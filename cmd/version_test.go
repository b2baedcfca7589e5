package cmd

import (
	"testing"

	"github.com/timvw/powerline-tmux/internal/tmux"
)

func TestParseMinVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    tmux.VersionInfo
		wantErr bool
	}{
		{input: "2.1", want: tmux.VersionInfo{Major: 2, Minor: 1}},
		{input: "3", want: tmux.VersionInfo{Major: 3}},
		{input: "3.3a", want: tmux.VersionInfo{Major: 3, Minor: 3, Suffix: "a"}},
		{input: "master", want: tmux.VersionInfo{Development: true, Suffix: "master"}},
		{input: "two", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseMinVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseMinVersion(%q): error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseMinVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
