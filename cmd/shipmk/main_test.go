package main

import (
	"os"
	"testing"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		config       string
		args         []string
		expectedExit int
	}{
		{
			name:         "version",
			args:         []string{"shipmk", "version"},
			expectedExit: 0,
		},
		{
			name:         "list without config",
			args:         []string{"shipmk", "list"},
			expectedExit: 0,
		},
		{
			name: "successful target",
			config: `targets:
  greet:
    cmd:
      - echo hello
`,
			args:         []string{"shipmk", "greet"},
			expectedExit: 0,
		},
		{
			name:         "unknown target",
			args:         []string{"shipmk", "no-such-target"},
			expectedExit: 1,
		},
		{
			name: "failing target propagates exit code",
			config: `targets:
  fail:
    cmd:
      - exit 3
`,
			args:         []string{"shipmk", "fail"},
			expectedExit: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			if tt.config != "" {
				if err := os.WriteFile(tmpDir+"/shipmk.yaml", []byte(tt.config), 0o600); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
			}

			originalWd, err := os.Getwd()
			if err != nil {
				t.Fatalf("failed to get wd: %v", err)
			}
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args

			if got := run(); got != tt.expectedExit {
				t.Errorf("run() = %d, want %d", got, tt.expectedExit)
			}
		})
	}
}
