package candidates

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"passhunt/internal/core/ports"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/validator"
	"passhunt/internal/platform/workerpool"
)

// StdinPath indica que la wordlist se lee de la entrada estándar.
const StdinPath = "-"

// DefaultMaxLineLength longitud máxima de una línea de wordlist.
const DefaultMaxLineLength = 64 * 1024

// WordlistOptions configura la lectura de una wordlist.
type WordlistOptions struct {
	// Count hace una pasada previa para conocer el total (no disponible con stdin)
	Count bool

	// MinLength/MaxLength filtran candidatos por longitud en bytes (0 = sin límite)
	MinLength int
	MaxLength int

	// MaxLineLength líneas más largas invalidan el stream
	MaxLineLength int

	// Stdin reemplaza os.Stdin (tests)
	Stdin io.Reader

	Logger logx.Logger
}

// Wordlist emite las líneas de un archivo (o stdin) sin cargarlo en memoria.
// Las líneas se recortan y las vacías se descartan.
type Wordlist struct {
	path   string
	opts   WordlistOptions
	logger logx.Logger
	total  int64

	mu     sync.Mutex
	closer io.Closer
}

// NewWordlist abre la wordlist. Con opts.Count recorre el archivo una vez para
// contar los candidatos válidos.
func NewWordlist(path string, opts WordlistOptions) (*Wordlist, error) {
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = DefaultMaxLineLength
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Logger == nil {
		opts.Logger = logx.NewSilent()
	}

	w := &Wordlist{
		path:   path,
		opts:   opts,
		logger: opts.Logger.With("component", "wordlist"),
		total:  -1,
	}

	if path != StdinPath {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("cannot open wordlist: %w", err)
		}
	}

	if opts.Count && path != StdinPath {
		n, err := w.count()
		if err != nil {
			return nil, err
		}
		w.total = n
		w.logger.Debug("wordlist counted", "path", path, "candidates", n)
	}

	return w, nil
}

func (w *Wordlist) Name() string { return "wordlist" }

// Len retorna el total contado o -1 si no se contó.
func (w *Wordlist) Len() int64 { return w.total }

func (w *Wordlist) Stream(ctx context.Context) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(out)

		r, err := w.open()
		if err != nil {
			errc <- err
			return
		}

		err = w.scan(r, func(candidate string) bool {
			select {
			case out <- candidate:
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil {
			// el error se publica antes de cerrar out
			errc <- err
		}
	}()

	return out, errc
}

// Close cierra el archivo abierto, si lo hay. Nunca cierra stdin.
func (w *Wordlist) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

func (w *Wordlist) open() (io.Reader, error) {
	if w.path == StdinPath {
		return w.opts.Stdin, nil
	}

	f, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open wordlist: %w", err)
	}

	w.mu.Lock()
	w.closer = f
	w.mu.Unlock()
	return f, nil
}

func (w *Wordlist) count() (int64, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return 0, fmt.Errorf("cannot open wordlist: %w", err)
	}
	defer f.Close()

	var n int64
	err = w.scan(f, func(string) bool {
		n++
		return true
	})
	return n, err
}

// scan recorre r y llama emit por cada candidato válido hasta que emit retorne false.
func (w *Wordlist) scan(r io.Reader, emit func(string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, w.opts.MaxLineLength)), w.opts.MaxLineLength)

	line := 0
	for scanner.Scan() {
		line++
		candidate := strings.TrimSpace(scanner.Text())
		if validator.IsEmpty(candidate) || !w.accept(candidate) {
			continue
		}
		if !validator.IsCandidate(candidate) {
			w.logger.Debug("skipping invalid line", "line", line)
			continue
		}
		if !emit(candidate) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("wordlist line %d: %w", line+1, err)
	}
	return nil
}

func (w *Wordlist) accept(candidate string) bool {
	if w.opts.MinLength > 0 && !validator.MinLength(candidate, w.opts.MinLength) {
		return false
	}
	if w.opts.MaxLength > 0 && !validator.MaxLength(candidate, w.opts.MaxLength) {
		return false
	}
	return true
}

// Load consume la fuente completa y la devuelve como List ordenada por scheduler.
// Se usa cuando el orden de despacho no es FIFO.
func Load(ctx context.Context, src ports.CandidateSource, scheduler workerpool.Scheduler) (*List, error) {
	defer src.Close()

	var size int64
	if sized, ok := src.(ports.SizedSource); ok {
		size = min(max(sized.Len(), 0), 1<<20)
	}
	items := make([]string, 0, size)
	out, errc := src.Stream(ctx)
	for c := range out {
		items = append(items, c)
	}

	select {
	case err := <-errc:
		if err != nil {
			return nil, err
		}
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return NewList(items, scheduler), nil
}

var _ ports.SizedSource = (*Wordlist)(nil)
