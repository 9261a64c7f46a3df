package main

import (
	"testing"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantPort  int
		wantWatch bool
		wantErr   bool
	}{
		{"defaults", nil, 8000, false, false},
		{"port only", []string{"8080"}, 8080, false, false},
		{"watch only", []string{"-watch"}, 8000, true, false},
		{"watch and port", []string{"-watch", "8080"}, 8080, true, false},
		{"flag after port", []string{"8080", "-watch"}, 0, false, true},
		{"extra positional", []string{"8080", "9090"}, 0, false, true},
		{"non-numeric port", []string{"http"}, 0, false, true},
		{"port out of range", []string{"70000"}, 0, false, true},
		{"unknown flag", []string{"-verbose"}, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseArgs(tt.args, 8000)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.port != tt.wantPort {
				t.Errorf("Expected port %d, got %d", tt.wantPort, opts.port)
			}
			if opts.watch != tt.wantWatch {
				t.Errorf("Expected watch %v, got %v", tt.wantWatch, opts.watch)
			}
		})
	}
}
