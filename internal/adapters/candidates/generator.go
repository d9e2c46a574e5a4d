package candidates

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"passhunt/internal/core/ports"
	"passhunt/internal/platform/logx"
)

// Modos de combinación de keywords.
const (
	ModePermutation = "permutation"
	ModeCombination = "combination"
	ModeBoth        = "both"
)

// Modos de mayúsculas.
const (
	CaseNone       = "none"
	CaseLower      = "lower"
	CaseUpper      = "upper"
	CaseTitle      = "title"
	CaseCapitalize = "capitalize"
	CaseSwap       = "swap"
)

// MaxLeetLevel 1 = básico, 2 = extendido, 3 = una variante por columna del mapa extendido.
const MaxLeetLevel = 3

// DefaultNumEnd último sufijo numérico si no se indica otro.
const DefaultNumEnd = 9999

// DefaultPatterns separadores entre keywords. Incluye el vacío.
var DefaultPatterns = []string{
	"", " ", "<", "!", ".", "_", "+", "(", `"`, "|", "¨", "/", "'", ">", "@", ")", "#", "~", "%", "`",
	"-", ";", ",", "&", "=", "*", `\`, "$", "é", "à", "è", ":",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
}

var leetBasic = map[rune][]string{
	'a': {"4", "@", "A"},
	'b': {"8", "B"},
	'e': {"3", "E"},
	'g': {"6", "9", "G"},
	'i': {"1", "!", "I"},
	'l': {"1", "L"},
	'o': {"0", "O"},
	's': {"5", "$", "S"},
	't': {"7", "+", "T"},
	'z': {"2", "S"},
}

var leetExtended = map[rune][]string{
	'a': {"4", "@", "A", "a"},
	'b': {"8", "B", "b"},
	'c': {"(", "<", "C", "c"},
	'd': {")", "D", "d"},
	'e': {"3", "E", "e"},
	'f': {"=", "F", "f"},
	'g': {"6", "9", "G", "g"},
	'h': {"#", "H", "h"},
	'i': {"1", "!", "I", "i"},
	'j': {"]", "J", "j"},
	'k': {"<", "K", "k"},
	'l': {"1", "|", "L", "l"},
	'm': {"M", "m", "^^"},
	'n': {"N", "n"},
	'o': {"0", "O", "o"},
	'p': {"P", "p", "9"},
	'q': {"Q", "q", "9"},
	'r': {"R", "r"},
	's': {"5", "$", "S", "s"},
	't': {"7", "+", "T", "t"},
	'u': {"U", "u", "v"},
	'v': {"U", "v"},
	'w': {"W", "w", "vv"},
	'x': {"X", "x", "><"},
	'y': {"Y", "y"},
	'z': {"2", "S", "z"},
}

// leetColumns variantes que emite el nivel 3 (opciones de la entrada más larga).
const leetColumns = 4

// GeneratorOptions configura el generador de candidatos a partir de keywords.
type GeneratorOptions struct {
	Keywords []string

	// Patterns separadores entre keywords; nil usa DefaultPatterns
	Patterns []string

	// MinOrder/MaxOrder cuántas keywords se unen por candidato (MaxOrder 0 = todas)
	MinOrder int
	MaxOrder int

	Mode     string
	CaseMode string

	// LeetLevel 0 desactiva la variante leetspeak
	LeetLevel int

	// Reverse añade la variante invertida de cada candidato
	Reverse bool

	Prepend string
	Append  string

	// AddNum añade un sufijo numérico NumStart..NumEnd, con ceros hasta NumPad dígitos
	AddNum   bool
	NumStart int
	NumEnd   int
	NumPad   int

	// MinLength/MaxLength filtran por longitud en bytes (0 = sin límite)
	MinLength int
	MaxLength int

	SkipEmpty bool

	Logger logx.Logger
}

// Generator produce candidatos combinando keywords con separadores y
// transformaciones. Nada se materializa: el stream se genera bajo demanda.
type Generator struct {
	opts   GeneratorOptions
	logger logx.Logger
	leet   []map[rune]string
}

// NewGenerator valida las opciones y crea el generador.
func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	if len(opts.Keywords) == 0 {
		return nil, errors.New("generator needs at least one keyword")
	}
	if opts.Patterns == nil {
		opts.Patterns = DefaultPatterns
	}
	if opts.Mode == "" {
		opts.Mode = ModePermutation
	}
	if opts.CaseMode == "" {
		opts.CaseMode = CaseNone
	}
	if opts.MinOrder <= 0 {
		opts.MinOrder = 1
	}
	if opts.MaxOrder <= 0 || opts.MaxOrder > len(opts.Keywords) {
		opts.MaxOrder = len(opts.Keywords)
	}
	if opts.Logger == nil {
		opts.Logger = logx.NewSilent()
	}

	switch opts.Mode {
	case ModePermutation, ModeCombination, ModeBoth:
	default:
		return nil, fmt.Errorf("unknown generator mode %q", opts.Mode)
	}
	if _, err := caseFunc(opts.CaseMode); err != nil {
		return nil, err
	}
	if opts.LeetLevel < 0 || opts.LeetLevel > MaxLeetLevel {
		return nil, fmt.Errorf("leet level must be between 1 and %d", MaxLeetLevel)
	}
	if opts.MinOrder > opts.MaxOrder {
		return nil, fmt.Errorf("min order %d exceeds the %d keywords available", opts.MinOrder, opts.MaxOrder)
	}
	if opts.AddNum && (opts.NumStart < 0 || opts.NumEnd < opts.NumStart) {
		return nil, fmt.Errorf("invalid number range %d-%d", opts.NumStart, opts.NumEnd)
	}

	return &Generator{
		opts:   opts,
		logger: opts.Logger.With("component", "generator"),
		leet:   leetTables(opts.LeetLevel),
	}, nil
}

func (g *Generator) Name() string { return "generator" }
func (g *Generator) Close() error { return nil }

// Len retorna el total exacto, o -1 si un filtro lo hace impredecible o no cabe en int64.
func (g *Generator) Len() int64 {
	if g.opts.MinLength > 0 || g.opts.MaxLength > 0 || g.opts.SkipEmpty {
		return -1
	}

	n := int64(len(g.opts.Keywords))
	m := int64(len(g.opts.Patterns))

	var bases int64
	for k := int64(g.opts.MinOrder); k <= int64(g.opts.MaxOrder); k++ {
		seps := binomial(m, min(max(k-1, 1), m))
		if g.opts.Mode != ModeCombination {
			bases = addSat(bases, mulSat(permutations(n, k), seps))
		}
		if g.opts.Mode != ModePermutation && k > 1 {
			bases = addSat(bases, mulSat(binomial(n, k), seps))
		}
	}

	per := int64(1 + len(g.leet))
	if g.opts.Reverse {
		per *= 2
	}
	if g.opts.AddNum {
		per = mulSat(per, int64(g.opts.NumEnd-g.opts.NumStart+1))
	}

	total := mulSat(bases, per)
	if total == math.MaxInt64 {
		return -1
	}
	return total
}

func (g *Generator) Stream(ctx context.Context) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(out)

		emitted := 0
		for candidate := range g.All() {
			select {
			case out <- candidate:
				emitted++
			case <-ctx.Done():
				return
			}
		}
		g.logger.Debug("generator exhausted", "candidates", emitted)
	}()

	return out, errc
}

// All recorre todos los candidatos en orden de generación.
func (g *Generator) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		// un cases.Caser no se comparte entre goroutines
		caser, _ := caseFunc(g.opts.CaseMode)
		for base := range g.bases() {
			if !g.expand(caser(base), yield) {
				return
			}
		}
	}
}

// bases une keywords y separadores: w1 p1 w2 p2 ... wk.
// Con una sola keyword el separador va al final (w1 p1).
func (g *Generator) bases() iter.Seq[string] {
	words, patterns := g.opts.Keywords, g.opts.Patterns

	return func(yield func(string) bool) {
		join := func(idx []int) bool {
			seps := min(max(len(idx)-1, 1), len(patterns))
			for pc := range combinations(len(patterns), seps) {
				var sb strings.Builder
				for i := 0; i < len(idx) && i <= len(pc); i++ {
					sb.WriteString(words[idx[i]])
					if i < len(pc) {
						sb.WriteString(patterns[pc[i]])
					}
				}
				if !yield(sb.String()) {
					return false
				}
			}
			return true
		}

		for order := g.opts.MinOrder; order <= g.opts.MaxOrder; order++ {
			if g.opts.Mode != ModeCombination {
				for idx := range permutationsOf(len(words), order) {
					if !join(idx) {
						return
					}
				}
			}
			if g.opts.Mode != ModePermutation && order > 1 {
				for idx := range combinations(len(words), order) {
					if !join(idx) {
						return
					}
				}
			}
		}
	}
}

// expand aplica a una base ya convertida de mayúsculas, en orden:
// leet, reverse, prepend/append, sufijo numérico, filtros.
func (g *Generator) expand(s string, yield func(string) bool) bool {
	variants := []string{s}
	for _, table := range g.leet {
		variants = append(variants, leetify(s, table))
	}
	if g.opts.Reverse {
		withReversed := make([]string, 0, 2*len(variants))
		for _, v := range variants {
			withReversed = append(withReversed, v, reverse(v))
		}
		variants = withReversed
	}

	for _, v := range variants {
		v = g.opts.Prepend + v + g.opts.Append

		if !g.opts.AddNum {
			if !g.emit(v, yield) {
				return false
			}
			continue
		}
		for num := g.opts.NumStart; num <= g.opts.NumEnd; num++ {
			if !g.emit(v+padNumber(num, g.opts.NumPad), yield) {
				return false
			}
		}
	}
	return true
}

func (g *Generator) emit(candidate string, yield func(string) bool) bool {
	if g.opts.SkipEmpty && candidate == "" {
		return true
	}
	if g.opts.MinLength > 0 && len(candidate) < g.opts.MinLength {
		return true
	}
	if g.opts.MaxLength > 0 && len(candidate) > g.opts.MaxLength {
		return true
	}
	return yield(candidate)
}

// leetTables una tabla por variante leet: la primera opción de cada letra,
// o con nivel 3 cada columna del mapa extendido.
func leetTables(level int) []map[rune]string {
	switch level {
	case 0:
		return nil
	case 1:
		return []map[rune]string{column(leetBasic, 0)}
	case 2:
		return []map[rune]string{column(leetExtended, 0)}
	default:
		tables := make([]map[rune]string, leetColumns)
		for i := range tables {
			tables[i] = column(leetExtended, i)
		}
		return tables
	}
}

// column toma la opción i de cada letra (la última si no hay tantas).
func column(m map[rune][]string, i int) map[rune]string {
	out := make(map[rune]string, len(m))
	for r, opts := range m {
		out[r] = opts[min(i, len(opts)-1)]
	}
	return out
}

func leetify(s string, table map[rune]string) string {
	var sb strings.Builder
	for _, r := range s {
		if sub, ok := table[unicode.ToLower(r)]; ok {
			sb.WriteString(sub)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func caseFunc(mode string) (func(string) string, error) {
	switch mode {
	case CaseNone:
		return func(s string) string { return s }, nil
	case CaseLower:
		return cases.Lower(language.Und).String, nil
	case CaseUpper:
		return cases.Upper(language.Und).String, nil
	case CaseTitle:
		return cases.Title(language.Und).String, nil
	case CaseCapitalize:
		lower := cases.Lower(language.Und)
		return func(s string) string {
			r, size := utf8.DecodeRuneInString(s)
			if size == 0 {
				return s
			}
			return string(unicode.ToUpper(r)) + lower.String(s[size:])
		}, nil
	case CaseSwap:
		return swapCase, nil
	default:
		return nil, fmt.Errorf("unknown case mode %q", mode)
	}
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, s)
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func padNumber(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// permutationsOf recorre las k-permutaciones de 0..n-1 en orden lexicográfico.
// El slice se reutiliza entre iteraciones.
func permutationsOf(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k > n || k <= 0 {
			return
		}
		idx := make([]int, 0, k)
		used := make([]bool, n)

		var walk func() bool
		walk = func() bool {
			if len(idx) == k {
				return yield(idx)
			}
			for i := 0; i < n; i++ {
				if used[i] {
					continue
				}
				used[i] = true
				idx = append(idx, i)
				ok := walk()
				idx = idx[:len(idx)-1]
				used[i] = false
				if !ok {
					return false
				}
			}
			return true
		}
		walk()
	}
}

// combinations recorre los k-subconjuntos de 0..n-1 en orden lexicográfico.
// k = 0 produce un único subconjunto vacío.
func combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k > n || k < 0 {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			if !yield(idx) {
				return
			}
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

func permutations(n, k int64) int64 {
	if k > n {
		return 0
	}
	out := int64(1)
	for i := int64(0); i < k; i++ {
		out = mulSat(out, n-i)
	}
	return out
}

func binomial(n, k int64) int64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	out := int64(1)
	for i := int64(1); i <= k; i++ {
		if out > math.MaxInt64/(n-k+i) {
			return math.MaxInt64
		}
		// exacto: out * (n-k+i) es divisible por i
		out = out * (n - k + i) / i
	}
	return out
}

func mulSat(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func addSat(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// LoadKeywords lee keywords de un archivo, una por línea. Las líneas vacías se ignoran.
func LoadKeywords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open keywords: %w", err)
	}
	defer f.Close()

	var keywords []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if kw := strings.TrimSpace(sc.Text()); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords in %s", path)
	}
	return keywords, nil
}

// ParsePatterns separa una lista de separadores por comas. Vacío = DefaultPatterns.
func ParsePatterns(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

var _ ports.SizedSource = (*Generator)(nil)
