// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

const helpText = `
passhunt - Parallel dictionary password recovery for encrypted archives

USAGE:
  passhunt -f <archive> (-w <wordlist> | -k <keywords> | -p <password>) [options]

  Without -f the only .rar/.zip/.7z file in the working directory is used.

CORE OPTIONS:
  -f, --file string           Encrypted archive to test (rar, zip, 7z)
  -w, --wordlist string       Wordlist file, one candidate per line ('-' reads stdin)
  -k, --keywords string       Generate candidates from a keywords file
  -p, --password string       Test a single password (an empty value is allowed)
  -t, --threads int           Number of parallel workers (default: CPUs - 1)
      --timeout duration      Timeout per verification (default: 10s)
      --progress-interval     Progress sampling interval (default: 1s)

CANDIDATE OPTIONS:
      --order string          Candidate order: fifo|length (default: fifo)
      --min-length int        Skip candidates shorter than N bytes
      --max-length int        Skip candidates longer than N bytes
      --count                 Count the wordlist first to show remaining (default: true)
      --dedupe                Skip repeated candidates
      --cache-size int        Verdict cache entries, 0 = disabled

GENERATOR OPTIONS (with -k):
      --patterns string       Comma-separated separators between keywords (default: built-in set)
      --min-order int         Minimum keywords per candidate (default: 1)
      --max-order int         Maximum keywords per candidate, 0 = all
      --mode string           permutation|combination|both (default: permutation)
      --case-mode string      none|lower|upper|title|capitalize|swap (default: none)
      --leet                  Add a leetspeak variant of each candidate
      --leet-level int        1=basic, 2=extended, 3=aggressive (default: 1)
      --reverse               Add the reversed version of each candidate
      --prepend string        String to prepend to each candidate
      --append string         String to append to each candidate
      --add-num               Add a numeric suffix to each candidate
      --num-start int         First numeric suffix (default: 0)
      --num-end int           Last numeric suffix (default: 9999)
      --num-pad int           Zero-pad numeric suffixes to N digits
      --skip-empty            Drop empty generated candidates

BACKEND OPTIONS:
  -o, --oracle string         auto|unrar|7z|zip|rar|extract (default: auto)
      --format string         Force the archive format instead of detecting it
      --unrar-path string     Path to the unrar binary
      --7z-path string        Path to the 7z binary
      --work-dir string       Scratch directory for the extract backend
      --listing-fallback      Confirm inconclusive unrar tests with a listing (default: true)
      --check                 Report which backends are available and exit

RESILIENCE OPTIONS:
  -r, --retries int           Retries per candidate on transient errors (default: 2)
      --backoff duration      Initial retry backoff (default: 200ms)
      --backoff-multiplier    Backoff growth factor (default: 2.0)
      --rate float            Max verifications per second, 0 = unlimited
      --rate-burst int        Rate limiter burst
      --circuit-breaker       Pause verifications after repeated tool failures

OUTPUT OPTIONS:
      --out string            Output directory for the JSON report (default: "passhunt_out")
      --json                  Write the JSON report (default: true)
      --ui string             auto|pterm|bar|raw|quiet (default: auto)
      --reveal                Show the password in the summary and report (default: true)
  -v, --verbose               Verbose logging
  -q, --quiet                 Only print the result

INFO:
  -c, --config string         YAML configuration file
      --version               Print version information and exit
  -h, --help                  Show this help message

EXAMPLES:
  Wordlist attack with 8 workers:
    passhunt -f secret.rar -w rockyou.txt -t 8

  Single password:
    passhunt -f secret.rar -p hunter2

  Shortest candidates first, pure-Go zip backend:
    passhunt -f backup.zip -w words.txt --order length -o zip

  Keywords joined with "_" or "-", capitalized, with a 2-digit suffix:
    passhunt -f secret.rar -k keywords.txt --patterns _,- --case-mode capitalize --add-num --num-end 99 --num-pad 2

  Read candidates from a pipe:
    generate-words | passhunt -f secret.7z -w -

EXIT CODES:
  0  password found
  1  candidates exhausted, no password found
  2  invalid configuration
  3  search aborted (tool missing, unreadable target, interrupted)

ENVIRONMENT VARIABLES:
  PASSHUNT_FILE, PASSHUNT_WORDLIST, PASSHUNT_KEYWORDS, PASSHUNT_PASSWORD, PASSHUNT_THREADS,
  PASSHUNT_TIMEOUT, PASSHUNT_PROGRESS_INTERVAL, PASSHUNT_ORDER, PASSHUNT_DEDUPE,
  PASSHUNT_ORACLE, PASSHUNT_UNRAR_PATH, PASSHUNT_7Z_PATH, PASSHUNT_RETRIES,
  PASSHUNT_RATE, PASSHUNT_CIRCUIT_BREAKER, PASSHUNT_OUTPUT_DIR, PASSHUNT_UI,
  PASSHUNT_LOG_LEVEL

  Precedence: defaults < --config file < environment < flags.
`

// PrintHelp escribe la ayuda en w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// PrintVersion escribe la información de versión en w.
func PrintVersion(w io.Writer, version, commit, date string) {
	fmt.Fprintf(w, "passhunt %s\n", version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", getGoVersion())
}

func getGoVersion() string {
	return runtime.Version()
}
