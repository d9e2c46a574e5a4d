// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/registry"
	"passhunt/internal/platform/workerpool"
)

// EnvPrefix prefijo de las variables de entorno.
const EnvPrefix = "PASSHUNT_"

// UI modes.
const (
	UIAuto  = "auto"
	UIPTerm = "pterm"
	UIBar   = "bar"
	UIRaw   = "raw"
	UIQuiet = "quiet"
)

type Config struct {
	Core       Core       `yaml:"core"`
	Input      Input      `yaml:"input"`
	Generate   Generate   `yaml:"generate"`
	Oracle     Oracle     `yaml:"oracle"`
	Resilience Resilience `yaml:"resilience"`
	Output     Output     `yaml:"output"`

	// TargetCandidates archivos encontrados por DiscoverTarget cuando falta -f
	TargetCandidates []string `yaml:"-"`

	// Solo CLI
	ConfigFile   string `yaml:"-"`
	PrintVersion bool   `yaml:"-"`
	PrintHelp    bool   `yaml:"-"`
	Check        bool   `yaml:"-"`
}

type Core struct {
	Target           string        `yaml:"target"`
	Workers          int           `yaml:"workers"`
	Timeout          time.Duration `yaml:"timeout"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
	Dedupe           bool          `yaml:"dedupe"`
	CacheSize        int           `yaml:"cache_size"`
}

type Input struct {
	Wordlist string `yaml:"wordlist"`
	Password string `yaml:"password"`

	// PasswordSet distingue "-p ''" (password vacío) de la ausencia de -p
	PasswordSet bool `yaml:"-"`

	Order     string `yaml:"order"`
	MinLength int    `yaml:"min_length"`
	MaxLength int    `yaml:"max_length"`

	// Count recorre la wordlist antes de empezar para conocer el total
	Count bool `yaml:"count"`
}

// Generate configura el generador de candidatos a partir de keywords.
type Generate struct {
	// Keywords archivo con una keyword por línea; activa el generador
	Keywords  string `yaml:"keywords"`
	Patterns  string `yaml:"patterns"`
	MinOrder  int    `yaml:"min_order"`
	MaxOrder  int    `yaml:"max_order"`
	Mode      string `yaml:"mode"`
	CaseMode  string `yaml:"case_mode"`
	Leet      bool   `yaml:"leet"`
	LeetLevel int    `yaml:"leet_level"`
	Reverse   bool   `yaml:"reverse"`
	Prepend   string `yaml:"prepend"`
	Append    string `yaml:"append"`
	AddNum    bool   `yaml:"add_num"`
	NumStart  int    `yaml:"num_start"`
	NumEnd    int    `yaml:"num_end"`
	NumPad    int    `yaml:"num_pad"`
	SkipEmpty bool   `yaml:"skip_empty"`
}

type Oracle struct {
	Name            string `yaml:"name"`
	Format          string `yaml:"format"`
	UnrarPath       string `yaml:"unrar_path"`
	SevenZipPath    string `yaml:"sevenzip_path"`
	WorkDir         string `yaml:"work_dir"`
	ListingFallback bool   `yaml:"listing_fallback"`
}

type Resilience struct {
	MaxRetries        int           `yaml:"max_retries"`
	BackoffBase       time.Duration `yaml:"backoff_base"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`

	// RateLimit verificaciones por segundo (0 = sin límite)
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`

	CircuitBreakerEnabled     bool          `yaml:"circuit_breaker"`
	CircuitBreakerThreshold   int           `yaml:"circuit_breaker_threshold"`
	CircuitBreakerTimeout     time.Duration `yaml:"circuit_breaker_timeout"`
	CircuitBreakerHalfOpenMax int           `yaml:"circuit_breaker_half_open_max"`
}

type Output struct {
	Dir            string `yaml:"dir"`
	JSON           bool   `yaml:"json"`
	UI             string `yaml:"ui"`
	Verbose        bool   `yaml:"verbose"`
	Quiet          bool   `yaml:"quiet"`
	RevealPassword bool   `yaml:"reveal_password"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultWorkers deja un CPU libre.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()-1)
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: Core{
			Workers:          DefaultWorkers(),
			Timeout:          10 * time.Second,
			ProgressInterval: time.Second,
			CacheSize:        0,
		},
		Input: Input{
			Order: "fifo",
			Count: true,
		},
		Generate: Generate{
			MinOrder:  1,
			Mode:      "permutation",
			CaseMode:  "none",
			LeetLevel: 1,
			NumEnd:    9999,
		},
		Oracle: Oracle{
			Name:            registry.AutoOracle,
			ListingFallback: true,
		},
		Resilience: Resilience{
			MaxRetries:                2,
			BackoffBase:               200 * time.Millisecond,
			BackoffMultiplier:         2.0,
			CircuitBreakerEnabled:     false,
			CircuitBreakerThreshold:   5,
			CircuitBreakerTimeout:     5 * time.Second,
			CircuitBreakerHalfOpenMax: 1,
		},
		Output: Output{
			Dir:            "passhunt_out",
			JSON:           true,
			UI:             UIAuto,
			RevealPassword: true,
		},
	}
}

// Load construye la configuración: defaults -> archivo YAML (--config) -> ENV -> flags.
// No valida: el llamador decide cuándo llamar Validate (--check no necesita target).
func Load(args []string) (Config, error) {
	// Primera pasada solo para descubrir --config, --help y --version
	pre := DefaultConfig()
	fs := newFlagSet(&pre, io.Discard)
	if err := fs.Parse(args); err != nil {
		return pre, domain.NewConfigError("flags", err)
	}

	cfg := DefaultConfig()
	if pre.ConfigFile != "" {
		if err := LoadFile(pre.ConfigFile, &cfg); err != nil {
			return cfg, err
		}
	}

	loadFromEnv(&cfg)

	fs = newFlagSet(&cfg, io.Discard)
	if err := fs.Parse(args); err != nil {
		return cfg, domain.NewConfigError("flags", err)
	}
	if fs.Changed("password") {
		cfg.Input.PasswordSet = true
	}
	if fs.NArg() > 0 && cfg.Core.Target == "" {
		cfg.Core.Target = fs.Arg(0)
	}

	normalize(&cfg)
	return cfg, nil
}

// LoadFile mezcla el archivo YAML path sobre cfg. Las claves ausentes conservan su valor.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NewConfigError("config", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return domain.NewConfigError("config", fmt.Errorf("parse %s: %w", path, err))
	}
	if cfg.Input.Password != "" {
		cfg.Input.PasswordSet = true
	}
	return nil
}

// newFlagSet declara los flags sobre cfg. Los valores actuales de cfg son los defaults.
func newFlagSet(cfg *Config, output io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("passhunt", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {}

	fs.StringVarP(&cfg.Core.Target, "file", "f", cfg.Core.Target, "Encrypted archive to test (rar, zip, 7z)")
	fs.StringVarP(&cfg.Input.Wordlist, "wordlist", "w", cfg.Input.Wordlist, "Wordlist file, one candidate per line ('-' = stdin)")
	fs.StringVarP(&cfg.Input.Password, "password", "p", cfg.Input.Password, "Single password to test")
	fs.IntVarP(&cfg.Core.Workers, "threads", "t", cfg.Core.Workers, "Number of parallel workers")
	fs.DurationVar(&cfg.Core.Timeout, "timeout", cfg.Core.Timeout, "Timeout per verification")
	fs.DurationVar(&cfg.Core.ProgressInterval, "progress-interval", cfg.Core.ProgressInterval, "Progress sampling interval")
	fs.BoolVar(&cfg.Core.Dedupe, "dedupe", cfg.Core.Dedupe, "Skip repeated candidates")
	fs.IntVar(&cfg.Core.CacheSize, "cache-size", cfg.Core.CacheSize, "Verdict cache entries (0 = disabled)")

	fs.StringVar(&cfg.Input.Order, "order", cfg.Input.Order, "Candidate order for wordlists: fifo|length")
	fs.IntVar(&cfg.Input.MinLength, "min-length", cfg.Input.MinLength, "Skip candidates shorter than N bytes")
	fs.IntVar(&cfg.Input.MaxLength, "max-length", cfg.Input.MaxLength, "Skip candidates longer than N bytes")
	fs.BoolVar(&cfg.Input.Count, "count", cfg.Input.Count, "Count wordlist lines first to show remaining candidates")

	fs.StringVarP(&cfg.Generate.Keywords, "keywords", "k", cfg.Generate.Keywords, "Generate candidates from a keywords file")
	fs.StringVar(&cfg.Generate.Patterns, "patterns", cfg.Generate.Patterns, "Comma-separated separators between keywords (default: built-in set)")
	fs.IntVar(&cfg.Generate.MinOrder, "min-order", cfg.Generate.MinOrder, "Minimum keywords per candidate")
	fs.IntVar(&cfg.Generate.MaxOrder, "max-order", cfg.Generate.MaxOrder, "Maximum keywords per candidate (0 = all)")
	fs.StringVar(&cfg.Generate.Mode, "mode", cfg.Generate.Mode, "Keyword joining: permutation|combination|both")
	fs.StringVar(&cfg.Generate.CaseMode, "case-mode", cfg.Generate.CaseMode, "Case transform: none|lower|upper|title|capitalize|swap")
	fs.BoolVar(&cfg.Generate.Leet, "leet", cfg.Generate.Leet, "Add a leetspeak variant of each candidate")
	fs.IntVar(&cfg.Generate.LeetLevel, "leet-level", cfg.Generate.LeetLevel, "Leetspeak level: 1=basic, 2=extended, 3=aggressive")
	fs.BoolVar(&cfg.Generate.Reverse, "reverse", cfg.Generate.Reverse, "Add the reversed version of each candidate")
	fs.StringVar(&cfg.Generate.Prepend, "prepend", cfg.Generate.Prepend, "String to prepend to each candidate")
	fs.StringVar(&cfg.Generate.Append, "append", cfg.Generate.Append, "String to append to each candidate")
	fs.BoolVar(&cfg.Generate.AddNum, "add-num", cfg.Generate.AddNum, "Add a numeric suffix to each candidate")
	fs.IntVar(&cfg.Generate.NumStart, "num-start", cfg.Generate.NumStart, "First numeric suffix")
	fs.IntVar(&cfg.Generate.NumEnd, "num-end", cfg.Generate.NumEnd, "Last numeric suffix")
	fs.IntVar(&cfg.Generate.NumPad, "num-pad", cfg.Generate.NumPad, "Zero-pad numeric suffixes to N digits")
	fs.BoolVar(&cfg.Generate.SkipEmpty, "skip-empty", cfg.Generate.SkipEmpty, "Drop empty generated candidates")

	fs.StringVarP(&cfg.Oracle.Name, "oracle", "o", cfg.Oracle.Name, "Verification backend: auto|unrar|7z|zip|rar|extract")
	fs.StringVar(&cfg.Oracle.Format, "format", cfg.Oracle.Format, "Force archive format instead of detecting it")
	fs.StringVar(&cfg.Oracle.UnrarPath, "unrar-path", cfg.Oracle.UnrarPath, "Path to the unrar binary")
	fs.StringVar(&cfg.Oracle.SevenZipPath, "7z-path", cfg.Oracle.SevenZipPath, "Path to the 7z binary")
	fs.StringVar(&cfg.Oracle.WorkDir, "work-dir", cfg.Oracle.WorkDir, "Scratch directory for the extract backend")
	fs.BoolVar(&cfg.Oracle.ListingFallback, "listing-fallback", cfg.Oracle.ListingFallback, "Confirm inconclusive unrar tests with a listing")

	fs.IntVarP(&cfg.Resilience.MaxRetries, "retries", "r", cfg.Resilience.MaxRetries, "Retries per candidate on transient errors")
	fs.DurationVar(&cfg.Resilience.BackoffBase, "backoff", cfg.Resilience.BackoffBase, "Initial retry backoff")
	fs.Float64Var(&cfg.Resilience.BackoffMultiplier, "backoff-multiplier", cfg.Resilience.BackoffMultiplier, "Backoff growth factor")
	fs.Float64Var(&cfg.Resilience.RateLimit, "rate", cfg.Resilience.RateLimit, "Max verifications per second (0 = unlimited)")
	fs.IntVar(&cfg.Resilience.RateBurst, "rate-burst", cfg.Resilience.RateBurst, "Rate limiter burst")
	fs.BoolVar(&cfg.Resilience.CircuitBreakerEnabled, "circuit-breaker", cfg.Resilience.CircuitBreakerEnabled, "Pause verifications after repeated tool failures")
	fs.IntVar(&cfg.Resilience.CircuitBreakerThreshold, "circuit-breaker-threshold", cfg.Resilience.CircuitBreakerThreshold, "Failures before the circuit opens")
	fs.DurationVar(&cfg.Resilience.CircuitBreakerTimeout, "circuit-breaker-timeout", cfg.Resilience.CircuitBreakerTimeout, "How long the circuit stays open")

	fs.StringVar(&cfg.Output.Dir, "out", cfg.Output.Dir, "Output directory for the JSON report")
	fs.BoolVar(&cfg.Output.JSON, "json", cfg.Output.JSON, "Write the JSON report")
	fs.StringVar(&cfg.Output.UI, "ui", cfg.Output.UI, "Progress display: auto|pterm|bar|raw|quiet")
	fs.BoolVarP(&cfg.Output.Verbose, "verbose", "v", cfg.Output.Verbose, "Verbose logging")
	fs.BoolVarP(&cfg.Output.Quiet, "quiet", "q", cfg.Output.Quiet, "Only print the result")
	fs.BoolVar(&cfg.Output.RevealPassword, "reveal", cfg.Output.RevealPassword, "Show the password in the summary and report")

	fs.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "YAML configuration file")
	fs.BoolVar(&cfg.Check, "check", cfg.Check, "Check which verification backends are available and exit")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&cfg.PrintHelp, "help", "h", false, "Show help")

	return fs
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv(EnvPrefix+"FILE", ""); v != "" {
		cfg.Core.Target = v
	}
	if v := getenv(EnvPrefix+"WORDLIST", ""); v != "" {
		cfg.Input.Wordlist = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "PASSWORD"); ok {
		cfg.Input.Password = v
		cfg.Input.PasswordSet = true
	}
	if v := getenv(EnvPrefix+"KEYWORDS", ""); v != "" {
		cfg.Generate.Keywords = v
	}
	if v := getenv(EnvPrefix+"THREADS", ""); v != "" {
		cfg.Core.Workers = parseInt(v, cfg.Core.Workers)
	}
	if v := getenv(EnvPrefix+"TIMEOUT", ""); v != "" {
		cfg.Core.Timeout = parseDuration(v, cfg.Core.Timeout)
	}
	if v := getenv(EnvPrefix+"PROGRESS_INTERVAL", ""); v != "" {
		cfg.Core.ProgressInterval = parseDuration(v, cfg.Core.ProgressInterval)
	}
	if v := getenv(EnvPrefix+"DEDUPE", ""); v != "" {
		cfg.Core.Dedupe = parseBool(v)
	}
	if v := getenv(EnvPrefix+"ORDER", ""); v != "" {
		cfg.Input.Order = v
	}
	if v := getenv(EnvPrefix+"ORACLE", ""); v != "" {
		cfg.Oracle.Name = v
	}
	if v := getenv(EnvPrefix+"UNRAR_PATH", ""); v != "" {
		cfg.Oracle.UnrarPath = v
	}
	if v := getenv(EnvPrefix+"7Z_PATH", ""); v != "" {
		cfg.Oracle.SevenZipPath = v
	}
	if v := getenv(EnvPrefix+"RETRIES", ""); v != "" {
		cfg.Resilience.MaxRetries = parseInt(v, cfg.Resilience.MaxRetries)
	}
	if v := getenv(EnvPrefix+"RATE", ""); v != "" {
		cfg.Resilience.RateLimit = parseFloat(v, cfg.Resilience.RateLimit)
	}
	if v := getenv(EnvPrefix+"CIRCUIT_BREAKER", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
	if v := getenv(EnvPrefix+"OUTPUT_DIR", ""); v != "" {
		cfg.Output.Dir = v
	}
	if v := getenv(EnvPrefix+"UI", ""); v != "" {
		cfg.Output.UI = v
	}
	if v := getenv(EnvPrefix+"LOG_LEVEL", ""); v != "" {
		cfg.Output.LogLevel = v
	}
}

func normalize(c *Config) {
	c.Core.Target = strings.TrimSpace(c.Core.Target)
	c.Input.Wordlist = strings.TrimSpace(c.Input.Wordlist)
	c.Generate.Keywords = strings.TrimSpace(c.Generate.Keywords)
	c.Generate.Mode = strings.ToLower(strings.TrimSpace(c.Generate.Mode))
	c.Generate.CaseMode = strings.ToLower(strings.TrimSpace(c.Generate.CaseMode))
	c.Input.Order = strings.ToLower(strings.TrimSpace(c.Input.Order))
	c.Oracle.Name = strings.ToLower(strings.TrimSpace(c.Oracle.Name))
	c.Output.UI = strings.ToLower(strings.TrimSpace(c.Output.UI))

	if c.Oracle.Name == "" {
		c.Oracle.Name = registry.AutoOracle
	}
	if c.Output.UI == "" {
		c.Output.UI = UIAuto
	}
	if c.Output.Quiet {
		c.Output.UI = UIQuiet
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "passhunt_out"
	}
}

// Validate verifica la configuración antes de arrancar cualquier worker.
// Todos los errores son *domain.ConfigError, combinados con errors.Join.
func (c Config) Validate() error {
	var errs []error
	add := func(field string, err error) {
		errs = append(errs, domain.NewConfigError(field, err))
	}

	switch {
	case c.Core.Target != "":
	case len(c.TargetCandidates) > 1:
		add("file", fmt.Errorf("%w: found %s; choose one with -f",
			domain.ErrMissingTarget, strings.Join(c.TargetCandidates, ", ")))
	default:
		add("file", domain.ErrMissingTarget)
	}
	if c.Input.Wordlist == "" && c.Generate.Keywords == "" && !c.Input.PasswordSet {
		add("input", domain.ErrMissingInput)
	}
	if c.Generating() {
		c.validateGenerate(add)
	}
	if c.Core.Workers <= 0 {
		add("threads", domain.ErrInvalidPoolSize)
	}
	if c.Core.Timeout <= 0 {
		add("timeout", domain.ErrInvalidTimeout)
	}
	if c.Core.ProgressInterval <= 0 {
		add("progress-interval", domain.ErrInvalidInterval)
	}
	if c.Resilience.MaxRetries < 0 {
		add("retries", domain.ErrInvalidRetries)
	}
	if c.Resilience.RateLimit < 0 {
		add("rate", errors.New("rate limit cannot be negative"))
	}
	if c.Resilience.BackoffMultiplier < 1 {
		add("backoff-multiplier", errors.New("backoff multiplier must be at least 1"))
	}
	if c.Core.CacheSize < 0 {
		add("cache-size", errors.New("cache size cannot be negative"))
	}
	if c.Input.MaxLength > 0 && c.Input.MinLength > c.Input.MaxLength {
		add("min-length", fmt.Errorf("min length %d exceeds max length %d", c.Input.MinLength, c.Input.MaxLength))
	}
	if _, err := workerpool.ParseScheduler(c.Input.Order); err != nil {
		add("order", err)
	}
	if c.Oracle.Format != "" && !domain.ParseArchiveFormat(c.Oracle.Format).IsValid() {
		add("format", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, c.Oracle.Format))
	}
	switch c.Output.UI {
	case UIAuto, UIPTerm, UIBar, UIRaw, UIQuiet:
	default:
		add("ui", fmt.Errorf("unknown ui mode %q", c.Output.UI))
	}

	return errors.Join(errs...)
}

func (c Config) validateGenerate(add func(string, error)) {
	g := c.Generate
	switch g.Mode {
	case "permutation", "combination", "both":
	default:
		add("mode", fmt.Errorf("unknown generator mode %q", g.Mode))
	}
	switch g.CaseMode {
	case "none", "lower", "upper", "title", "capitalize", "swap":
	default:
		add("case-mode", fmt.Errorf("unknown case mode %q", g.CaseMode))
	}
	if g.Leet && (g.LeetLevel < 1 || g.LeetLevel > 3) {
		add("leet-level", fmt.Errorf("leet level must be 1, 2 or 3, got %d", g.LeetLevel))
	}
	if g.MinOrder < 1 {
		add("min-order", errors.New("min order must be at least 1"))
	}
	if g.MaxOrder > 0 && g.MinOrder > g.MaxOrder {
		add("max-order", fmt.Errorf("min order %d exceeds max order %d", g.MinOrder, g.MaxOrder))
	}
	if g.AddNum && (g.NumStart < 0 || g.NumEnd < g.NumStart) {
		add("num-end", fmt.Errorf("invalid number range %d-%d", g.NumStart, g.NumEnd))
	}
	if g.NumPad < 0 {
		add("num-pad", errors.New("num pad cannot be negative"))
	}
}

// Warnings retorna avisos no fatales de la configuración.
func (c Config) Warnings() []string {
	var out []string
	switch {
	case c.Input.Wordlist != "" && c.Generate.Keywords != "":
		out = append(out, "both --keywords and --wordlist given; using the wordlist")
	case c.Input.Wordlist != "" && c.Input.PasswordSet:
		out = append(out, "both --password and --wordlist given; using the wordlist")
	case c.Generating() && c.Input.PasswordSet:
		out = append(out, "both --password and --keywords given; using the keywords")
	}
	if c.Core.Workers > 4*runtime.NumCPU() {
		out = append(out, fmt.Sprintf("%d workers on %d CPUs; external tools will compete for CPU", c.Core.Workers, runtime.NumCPU()))
	}
	return out
}

// SinglePassword indica si la búsqueda prueba solo el password de -p.
func (c Config) SinglePassword() bool {
	return c.Input.Wordlist == "" && c.Generate.Keywords == "" && c.Input.PasswordSet
}

// Generating indica si los candidatos salen del generador de keywords.
// Una wordlist tiene prioridad.
func (c Config) Generating() bool {
	return c.Input.Wordlist == "" && c.Generate.Keywords != ""
}

// archiveExtensions extensiones que DiscoverTarget considera.
var archiveExtensions = map[string]bool{".rar": true, ".zip": true, ".7z": true}

// DiscoverTarget busca archivos comprimidos en dir cuando no se indicó -f.
// Con uno solo lo usa como target; con varios los deja en TargetCandidates
// para que Validate los liste. Retorna true si eligió uno.
func (c *Config) DiscoverTarget(dir string) (bool, error) {
	if c.Core.Target != "" {
		return false, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("scan %s for archives: %w", dir, err)
	}

	var found []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if archiveExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			found = append(found, filepath.Join(dir, e.Name()))
		}
	}

	c.TargetCandidates = found
	if len(found) == 1 {
		c.Core.Target = found[0]
		return true, nil
	}
	return false, nil
}

// OracleConfig construye la configuración que reciben las factories del registry.
func (c Config) OracleConfig() ports.OracleConfig {
	oc := ports.DefaultOracleConfig()
	oc.Timeout = c.Core.Timeout
	oc.WorkDir = c.Oracle.WorkDir
	oc.Custom["listing_fallback"] = c.Oracle.ListingFallback
	if c.Oracle.UnrarPath != "" {
		oc.Custom["unrar_path"] = c.Oracle.UnrarPath
	}
	if c.Oracle.SevenZipPath != "" {
		oc.Custom["sevenzip_path"] = c.Oracle.SevenZipPath
	}
	return oc
}

// LogLevel nivel de log efectivo: --verbose gana sobre log_level, --quiet deja solo errores.
func (c Config) LogLevel() logx.Level {
	switch {
	case c.Output.Verbose:
		return logx.LevelDebug
	case c.Output.Quiet:
		return logx.LevelError
	case c.Output.LogLevel != "":
		return logx.ParseLevel(c.Output.LogLevel)
	default:
		return logx.LevelWarn
	}
}

// ToJSON serializa la configuración a JSON (útil para debugging). El password se omite.
func (c Config) ToJSON() (string, error) {
	c.Input.Password = ""
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// parseDuration acepta "5s", "250ms" o segundos enteros ("30").
func parseDuration(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
