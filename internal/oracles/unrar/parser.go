package unrar

import (
	"fmt"

	"passhunt/internal/core/domain"
	"passhunt/internal/oracles/common"
	perrors "passhunt/internal/platform/errors"
)

// Exit codes de unrar.
const (
	exitSuccess   = 0
	exitWarning   = 1
	exitFatal     = 2
	exitCRC       = 3
	exitOpen      = 6
	exitUsage     = 7
	exitMemory    = 8
	exitBadPass   = 11
	exitUserBreak = 255
)

var (
	wrongPasswordMarkers = []string{"incorrect password", "password is incorrect", "wrong password"}
	corruptMarkers       = []string{"is not rar archive", "unknown archive format"}
	okMarkers            = []string{"all ok"}
)

// classifyTest interpreta la salida de "unrar t". conclusive es false cuando la
// herramienta terminó bien pero sin confirmar ni rechazar el password.
func classifyTest(res common.Result) (v domain.Verdict, conclusive bool) {
	if res.TimedOut {
		return common.TimeoutVerdict(res), true
	}

	switch {
	case res.Contains(corruptMarkers...):
		return domain.Fatal(domain.ErrTargetCorrupt.Error(), domain.ErrTargetCorrupt), true
	case res.Contains(wrongPasswordMarkers...):
		return domain.NoMatch(), true
	}

	switch res.ExitCode {
	case exitBadPass, exitCRC:
		return domain.NoMatch(), true
	case exitOpen:
		return domain.Fatal(fmt.Sprintf("cannot open archive (exit code %d)", res.ExitCode), domain.ErrTargetNotFound), true
	case exitUsage:
		return domain.Fatal(fmt.Sprintf("bad command line (exit code %d)", res.ExitCode), perrors.ErrInvalidInput), true
	case exitMemory:
		return domain.Transient(fmt.Sprintf("not enough memory (exit code %d)", res.ExitCode), perrors.ErrResourceExhausted), true
	case exitUserBreak:
		return common.ExitVerdict(res), true
	case exitSuccess, exitWarning:
		if res.Contains(okMarkers...) {
			return domain.Match(), true
		}
		return domain.Transient("inconclusive test output", domain.ErrInconclusive), false
	case exitFatal:
		// sin aviso de password: el archivo está dañado
		return domain.Fatal(fmt.Sprintf("fatal error (exit code %d)", res.ExitCode), domain.ErrTargetCorrupt), true
	}

	return common.ExitVerdict(res), true
}

// classifyListing interpreta "unrar lt": un listado con contenido y sin aviso de
// password incorrecto confirma el candidato.
func classifyListing(res common.Result) domain.Verdict {
	if res.TimedOut {
		return common.TimeoutVerdict(res)
	}
	if res.Contains(wrongPasswordMarkers...) {
		return domain.NoMatch()
	}
	if res.ExitCode == exitSuccess && res.Contains("name:", "details:") {
		return domain.Match()
	}
	if res.ExitCode == exitSuccess {
		return domain.Transient("inconclusive listing output", domain.ErrInconclusive)
	}
	v, _ := classifyTest(res)
	return v
}
