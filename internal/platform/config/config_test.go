// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"passhunt/internal/core/domain"
	"passhunt/internal/platform/logx"
	"passhunt/internal/testutil"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{
			name:     "env var exists",
			key:      "PASSHUNT_TEST_KEY_1",
			def:      "default",
			envValue: "custom",
			expected: "custom",
		},
		{
			name:     "env var missing - uses default",
			key:      "PASSHUNT_TEST_KEY_MISSING",
			def:      "default",
			envValue: "",
			expected: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getenv(tt.key, tt.def)

			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"on", true},
		{" true ", true},

		{"0", false},
		{"false", false},
		{"no", false},
		{"off", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseBool(tt.input)
			if result != tt.expected {
				t.Errorf("parseBool(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		def      int
		expected int
	}{
		{"valid integer", "42", 10, 42},
		{"negative integer", "-5", 10, -5},
		{"with spaces", "  100  ", 10, 100},
		{"invalid - returns default", "abc", 10, 10},
		{"empty - returns default", "", 10, 10},
		{"float - returns default", "3.14", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseInt(tt.input, tt.def)
			if result != tt.expected {
				t.Errorf("parseInt(%q, %d) = %d, expected %d", tt.input, tt.def, result, tt.expected)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
	}{
		{"5s", 5 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"30", 30 * time.Second},
		{"later", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseDuration(tt.input, time.Minute)
			if result != tt.expected {
				t.Errorf("parseDuration(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	testutil.AssertEqual(t, cfg.Core.Timeout, 10*time.Second, "default timeout")
	testutil.AssertEqual(t, cfg.Core.ProgressInterval, time.Second, "default progress interval")
	testutil.AssertEqual(t, cfg.Resilience.MaxRetries, 2, "default retries")
	testutil.AssertEqual(t, cfg.Resilience.BackoffBase, 200*time.Millisecond, "default backoff")
	testutil.AssertEqual(t, cfg.Oracle.Name, "auto", "default oracle")
	testutil.AssertEqual(t, cfg.Input.Order, "fifo", "default order")
	testutil.AssertTrue(t, cfg.Core.Workers >= 1, "at least one worker")
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"-f", "secret.rar",
		"-w", "words.txt",
		"-t", "6",
		"--timeout", "3s",
		"--retries", "4",
		"--order", "LENGTH",
		"--oracle", "7Z",
		"--7z-path", "/opt/7z",
		"--ui", "raw",
	})
	testutil.AssertNoError(t, err, "Load")

	testutil.AssertEqual(t, cfg.Core.Target, "secret.rar", "target")
	testutil.AssertEqual(t, cfg.Input.Wordlist, "words.txt", "wordlist")
	testutil.AssertEqual(t, cfg.Core.Workers, 6, "workers")
	testutil.AssertEqual(t, cfg.Core.Timeout, 3*time.Second, "timeout")
	testutil.AssertEqual(t, cfg.Resilience.MaxRetries, 4, "retries")
	testutil.AssertEqual(t, cfg.Input.Order, "length", "order is normalized")
	testutil.AssertEqual(t, cfg.Oracle.Name, "7z", "oracle is normalized")
	testutil.AssertEqual(t, cfg.Output.UI, UIRaw, "ui")
	testutil.AssertFalse(t, cfg.Input.PasswordSet, "no -p given")
	testutil.AssertNoError(t, cfg.Validate(), "Validate")
}

func TestLoad_EmptyPasswordFlag(t *testing.T) {
	cfg, err := Load([]string{"-f", "secret.rar", "-p", ""})
	testutil.AssertNoError(t, err, "Load")

	testutil.AssertTrue(t, cfg.Input.PasswordSet, "empty -p still counts as a password")
	testutil.AssertTrue(t, cfg.SinglePassword(), "single password mode")
	testutil.AssertNoError(t, cfg.Validate(), "Validate")
}

func TestLoad_PositionalTarget(t *testing.T) {
	cfg, err := Load([]string{"-p", "x", "archive.zip"})
	testutil.AssertNoError(t, err, "Load")
	testutil.AssertEqual(t, cfg.Core.Target, "archive.zip", "positional target")
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := Load([]string{"--no-such-flag"})
	testutil.AssertErrorIs(t, err, domain.ErrInvalidConfig, "unknown flag")
}

func TestLoad_QuietForcesUI(t *testing.T) {
	cfg, err := Load([]string{"-q", "--ui", "pterm"})
	testutil.AssertNoError(t, err, "Load")
	testutil.AssertEqual(t, cfg.Output.UI, UIQuiet, "quiet wins over --ui")
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PASSHUNT_FILE", "env.rar")
	t.Setenv("PASSHUNT_WORDLIST", "env.txt")
	t.Setenv("PASSHUNT_THREADS", "3")
	t.Setenv("PASSHUNT_TIMEOUT", "20")
	t.Setenv("PASSHUNT_DEDUPE", "yes")
	t.Setenv("PASSHUNT_OUTPUT_DIR", "custom_out")

	cfg, err := Load(nil)
	testutil.AssertNoError(t, err, "Load")

	testutil.AssertEqual(t, cfg.Core.Target, "env.rar", "target")
	testutil.AssertEqual(t, cfg.Input.Wordlist, "env.txt", "wordlist")
	testutil.AssertEqual(t, cfg.Core.Workers, 3, "workers")
	testutil.AssertEqual(t, cfg.Core.Timeout, 20*time.Second, "timeout")
	testutil.AssertTrue(t, cfg.Core.Dedupe, "dedupe")
	testutil.AssertEqual(t, cfg.Output.Dir, "custom_out", "output dir")
}

func TestLoad_EmptyPasswordEnv(t *testing.T) {
	t.Setenv("PASSHUNT_PASSWORD", "")

	cfg, err := Load([]string{"-f", "a.rar"})
	testutil.AssertNoError(t, err, "Load")
	testutil.AssertTrue(t, cfg.Input.PasswordSet, "set but empty env var counts")
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "passhunt.yaml")
	content := `
core:
  target: file.rar
  workers: 2
  timeout: 4s
input:
  wordlist: file.txt
resilience:
  max_retries: 5
  backoff_base: 50ms
output:
  ui: bar
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PASSHUNT_THREADS", "7")

	cfg, err := Load([]string{"--config", path, "--timeout", "9s"})
	testutil.AssertNoError(t, err, "Load")

	// archivo
	testutil.AssertEqual(t, cfg.Core.Target, "file.rar", "target from file")
	testutil.AssertEqual(t, cfg.Input.Wordlist, "file.txt", "wordlist from file")
	testutil.AssertEqual(t, cfg.Resilience.MaxRetries, 5, "retries from file")
	testutil.AssertEqual(t, cfg.Resilience.BackoffBase, 50*time.Millisecond, "backoff from file")
	testutil.AssertEqual(t, cfg.Output.UI, UIBar, "ui from file")
	// env sobre archivo
	testutil.AssertEqual(t, cfg.Core.Workers, 7, "env overrides file")
	// flag sobre todo
	testutil.AssertEqual(t, cfg.Core.Timeout, 9*time.Second, "flag overrides file")
	// defaults intactos
	testutil.AssertEqual(t, cfg.Core.ProgressInterval, time.Second, "untouched default")
}

func TestLoad_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("core: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load([]string{"--config", path})
	testutil.AssertErrorIs(t, err, domain.ErrInvalidConfig, "bad yaml")

	_, err = Load([]string{"--config", filepath.Join(dir, "missing.yaml")})
	testutil.AssertError(t, err, "missing file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Core.Target = "a.rar"
		cfg.Input.Wordlist = "w.txt"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing target", func(c *Config) { c.Core.Target = "" }, domain.ErrMissingTarget},
		{"missing input", func(c *Config) { c.Input.Wordlist = "" }, domain.ErrMissingInput},
		{"zero workers", func(c *Config) { c.Core.Workers = 0 }, domain.ErrInvalidPoolSize},
		{"zero timeout", func(c *Config) { c.Core.Timeout = 0 }, domain.ErrInvalidTimeout},
		{"zero interval", func(c *Config) { c.Core.ProgressInterval = 0 }, domain.ErrInvalidInterval},
		{"negative retries", func(c *Config) { c.Resilience.MaxRetries = -1 }, domain.ErrInvalidRetries},
		{"bad format", func(c *Config) { c.Oracle.Format = "tar" }, domain.ErrUnsupportedFormat},
		{"bad order", func(c *Config) { c.Input.Order = "random" }, domain.ErrInvalidConfig},
		{"bad ui", func(c *Config) { c.Output.UI = "gui" }, domain.ErrInvalidConfig},
		{"bad length range", func(c *Config) { c.Input.MinLength, c.Input.MaxLength = 9, 3 }, domain.ErrInvalidConfig},
		{"negative rate", func(c *Config) { c.Resilience.RateLimit = -1 }, domain.ErrInvalidConfig},
		{"keywords only", func(c *Config) { c.Input.Wordlist, c.Generate.Keywords = "", "k.txt" }, nil},
		{"bad generator mode", func(c *Config) {
			c.Input.Wordlist, c.Generate.Keywords, c.Generate.Mode = "", "k.txt", "shuffle"
		}, domain.ErrInvalidConfig},
		{"bad case mode", func(c *Config) {
			c.Input.Wordlist, c.Generate.Keywords, c.Generate.CaseMode = "", "k.txt", "sarcastic"
		}, domain.ErrInvalidConfig},
		{"bad leet level", func(c *Config) {
			c.Input.Wordlist, c.Generate.Keywords = "", "k.txt"
			c.Generate.Leet, c.Generate.LeetLevel = true, 7
		}, domain.ErrInvalidConfig},
		{"bad number range", func(c *Config) {
			c.Input.Wordlist, c.Generate.Keywords = "", "k.txt"
			c.Generate.AddNum, c.Generate.NumStart, c.Generate.NumEnd = true, 10, 1
		}, domain.ErrInvalidConfig},
		{"generator ignored with wordlist", func(c *Config) { c.Generate.Keywords, c.Generate.Mode = "k.txt", "shuffle" }, nil},
		{"several archives", func(c *Config) {
			c.Core.Target = ""
			c.TargetCandidates = []string{"a.rar", "b.zip"}
		}, domain.ErrMissingTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				testutil.AssertNoError(t, err, "Validate")
				return
			}
			testutil.AssertErrorIs(t, err, tt.wantErr, "Validate")
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Core.Workers = 0

	err := cfg.Validate()
	testutil.AssertError(t, err, "Validate")
	for _, want := range []error{domain.ErrMissingTarget, domain.ErrMissingInput, domain.ErrInvalidPoolSize} {
		testutil.AssertErrorIs(t, err, want, "joined errors")
	}
}

func TestWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Wordlist = "w.txt"
	cfg.Input.PasswordSet = true

	warnings := cfg.Warnings()
	testutil.AssertTrue(t, len(warnings) >= 1, "password+wordlist warning")
	testutil.AssertContains(t, warnings[0], "wordlist", "warning text")
	testutil.AssertFalse(t, cfg.SinglePassword(), "wordlist wins")
}

func TestOracleConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Core.Timeout = 3 * time.Second
	cfg.Oracle.UnrarPath = "/usr/local/bin/unrar"
	cfg.Oracle.WorkDir = "/tmp/scratch"

	oc := cfg.OracleConfig()
	testutil.AssertEqual(t, oc.Timeout, 3*time.Second, "timeout")
	testutil.AssertEqual(t, oc.WorkDir, "/tmp/scratch", "work dir")
	testutil.AssertEqual(t, oc.Custom["unrar_path"], any("/usr/local/bin/unrar"), "unrar path")
	_, hasSevenZip := oc.Custom["sevenzip_path"]
	testutil.AssertFalse(t, hasSevenZip, "unset path is omitted")
}

func TestLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	testutil.AssertEqual(t, cfg.LogLevel(), logx.LevelWarn, "default")

	cfg.Output.LogLevel = "info"
	testutil.AssertEqual(t, cfg.LogLevel(), logx.LevelInfo, "log_level")

	cfg.Output.Verbose = true
	testutil.AssertEqual(t, cfg.LogLevel(), logx.LevelDebug, "verbose")
}

func TestToJSON_OmitsPassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Password = "hunter2"

	out, err := cfg.ToJSON()
	testutil.AssertNoError(t, err, "ToJSON")
	testutil.AssertFalse(t, strings.Contains(out, "hunter2"), "password must not be serialized")
}

func TestPrintHelp(t *testing.T) {
	var sb strings.Builder
	PrintHelp(&sb)
	testutil.AssertContains(t, sb.String(), "--wordlist", "help text")

	sb.Reset()
	PrintVersion(&sb, "1.2.3", "abc", "today")
	testutil.AssertContains(t, sb.String(), "passhunt 1.2.3", "version text")
}

func TestLoad_GeneratorFlags(t *testing.T) {
	cfg, err := Load([]string{
		"-f", "a.rar",
		"-k", "keywords.txt",
		"--mode", "BOTH",
		"--case-mode", "Title",
		"--leet", "--leet-level", "2",
		"--add-num", "--num-start", "1", "--num-end", "99", "--num-pad", "2",
		"--patterns", "_,-",
	})
	testutil.AssertNoError(t, err, "Load")

	testutil.AssertEqual(t, cfg.Generate.Keywords, "keywords.txt", "keywords")
	testutil.AssertEqual(t, cfg.Generate.Mode, "both", "mode is normalized")
	testutil.AssertEqual(t, cfg.Generate.CaseMode, "title", "case mode is normalized")
	testutil.AssertEqual(t, cfg.Generate.LeetLevel, 2, "leet level")
	testutil.AssertEqual(t, cfg.Generate.NumEnd, 99, "num end")
	testutil.AssertEqual(t, cfg.Generate.Patterns, "_,-", "patterns")
	testutil.AssertTrue(t, cfg.Generating(), "generator selected")
	testutil.AssertFalse(t, cfg.SinglePassword(), "not single password")
	testutil.AssertNoError(t, cfg.Validate(), "Validate")
}

func TestLoad_KeywordsFromEnv(t *testing.T) {
	t.Setenv("PASSHUNT_KEYWORDS", "env-keywords.txt")

	cfg, err := Load(nil)
	testutil.AssertNoError(t, err, "Load")
	testutil.AssertEqual(t, cfg.Generate.Keywords, "env-keywords.txt", "keywords from env")
}

func TestDiscoverTarget(t *testing.T) {
	t.Run("single archive is picked", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, "notes.txt", []byte("x"))
		archive := testutil.WriteFile(t, dir, "Backup.RAR", []byte("Rar!"))

		cfg := DefaultConfig()
		picked, err := cfg.DiscoverTarget(dir)
		testutil.AssertNoError(t, err, "discover")
		testutil.AssertTrue(t, picked, "picked")
		testutil.AssertEqual(t, cfg.Core.Target, archive, "target")
	})

	t.Run("several archives are listed", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteFile(t, dir, "a.zip", []byte("PK"))
		testutil.WriteFile(t, dir, "b.7z", []byte("7z"))

		cfg := DefaultConfig()
		picked, err := cfg.DiscoverTarget(dir)
		testutil.AssertNoError(t, err, "discover")
		testutil.AssertFalse(t, picked, "nothing picked")
		testutil.AssertLen(t, cfg.TargetCandidates, 2, "candidates")

		cfg.Input.Wordlist = "w.txt"
		err = cfg.Validate()
		testutil.AssertErrorIs(t, err, domain.ErrMissingTarget, "still missing")
		testutil.AssertContains(t, err.Error(), "choose one with -f", "hint")
	})

	t.Run("explicit target untouched", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Core.Target = "given.zip"
		picked, err := cfg.DiscoverTarget("/nonexistent")
		testutil.AssertNoError(t, err, "no scan when -f is given")
		testutil.AssertFalse(t, picked, "not picked")
		testutil.AssertEqual(t, cfg.Core.Target, "given.zip", "target")
	})

	t.Run("unreadable dir", func(t *testing.T) {
		cfg := DefaultConfig()
		_, err := cfg.DiscoverTarget("/nonexistent")
		testutil.AssertError(t, err, "scan error")
	})
}

func TestWarnings_KeywordsAndWordlist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.Wordlist = "w.txt"
	cfg.Generate.Keywords = "k.txt"

	warnings := cfg.Warnings()
	testutil.AssertTrue(t, len(warnings) >= 1, "keywords+wordlist warning")
	testutil.AssertContains(t, warnings[0], "--keywords", "warning text")
	testutil.AssertFalse(t, cfg.Generating(), "wordlist wins")
}
