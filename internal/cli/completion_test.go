package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell string
		want  []string
	}{
		{"bash", []string{"_primecalc_completions", "--strategy)", "interleaved contiguous", "--output|-o|", "complete -F _primecalc_completions primecalc"}},
		{"zsh", []string{"#compdef primecalc", "'(-t --workers)'{-t,--workers}", "'--config[YAML configuration file]:file:_files'", "'1:command:(primes sum)'"}},
		{"fish", []string{"complete -c primecalc -l strategy", "-xa 'interleaved contiguous'", "-l output -d 'Output file path' -rF"}},
		{"powershell", []string{"Register-ArgumentCompleter -CommandName 'primecalc'", "'--log-level'", "'debug', 'info', 'warn', 'error'"}},
		{"PS", []string{"Register-ArgumentCompleter"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%q): %v", tt.shell, err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("%s script missing %q", tt.shell, w)
				}
			}
		})
	}
}

func TestGenerateCompletionUnsupported(t *testing.T) {
	t.Parallel()
	if err := GenerateCompletion(&bytes.Buffer{}, "tcsh"); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}

func TestFlagRegistryHasEveryValueFlag(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, f := range flagRegistry {
		if f.Long == "" {
			t.Errorf("flag %q has no long name", f.Short)
		}
		if seen[f.Long] {
			t.Errorf("duplicate flag %q", f.Long)
		}
		seen[f.Long] = true
	}
	for _, name := range []string{"workers", "strategy", "slice-length", "compare", "verify", "interactive", "metrics-file", "quick-calibrate"} {
		if !seen[name] {
			t.Errorf("registry missing --%s", name)
		}
	}
}
