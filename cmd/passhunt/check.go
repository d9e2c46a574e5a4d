// cmd/passhunt/check.go
package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"passhunt/internal/oracles/common"
	"passhunt/internal/platform/config"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/registry"
)

// backendStatus resultado de --check para un backend.
type backendStatus struct {
	Name      string
	Formats   string
	Priority  int
	Available bool
	Detail    string
}

// checkBackends comprueba qué backends registrados pueden usarse en esta máquina.
// Los backends nativos siempre están disponibles; los externos necesitan su binario.
func checkBackends(cfg config.Config, logger logx.Logger) []backendStatus {
	reg := registry.Global()
	statuses := make([]backendStatus, 0, len(reg.List()))

	for _, name := range reg.List() {
		meta, ok := reg.GetMetadata(name)
		if !ok {
			continue
		}

		formats := make([]string, 0, len(meta.Formats))
		for _, f := range meta.Formats {
			formats = append(formats, f.String())
		}

		st := backendStatus{
			Name:      name,
			Formats:   strings.Join(formats, ","),
			Priority:  meta.Priority,
			Available: true,
			Detail:    "built-in",
		}

		if meta.External {
			runner := common.NewToolRunner(logger, common.RunnerConfig{
				OracleName: name,
				Tool:       meta.Tool,
				ExecPath:   toolPath(cfg, meta.Tool),
			})
			path, err := runner.LookPath()
			if err != nil {
				st.Available = false
				st.Detail = err.Error()
			} else {
				st.Detail = path
			}
		}

		statuses = append(statuses, st)
	}

	return statuses
}

// toolPath ruta configurada para un binario externo (vacío = PATH).
func toolPath(cfg config.Config, tool string) string {
	switch tool {
	case "unrar":
		return cfg.Oracle.UnrarPath
	case "7z":
		return cfg.Oracle.SevenZipPath
	default:
		return ""
	}
}

// runCheck imprime la disponibilidad de backends. Exit 0 si al menos uno sirve.
func runCheck(ctx context.Context, cfg config.Config, w io.Writer, logger logx.Logger) int {
	statuses := checkBackends(cfg, logger)

	data := pterm.TableData{{"Oracle", "Formats", "Priority", "Status", "Detail"}}
	available := 0
	for _, st := range statuses {
		status := pterm.Red("missing")
		if st.Available {
			status = pterm.Green("ok")
			available++
		}
		data = append(data, []string{st.Name, st.Formats, fmt.Sprintf("%d", st.Priority), status, st.Detail})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		logger.Err(err, "phase", "check")
		return exitAborted
	}
	fmt.Fprintln(w, table)

	if ctx.Err() != nil || available == 0 {
		return exitAborted
	}
	return exitFound
}
