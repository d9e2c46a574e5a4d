// cmd/passhunt/source.go
package main

import (
	"context"

	"passhunt/internal/adapters/candidates"
	"passhunt/internal/core/ports"
	"passhunt/internal/platform/config"
	"passhunt/internal/platform/logx"
	"passhunt/internal/platform/workerpool"
)

// buildSource elige la fuente de candidatos: password único, wordlist o
// generador de keywords. En orden FIFO la fuente se consume en streaming;
// cualquier otro scheduler la carga y la reordena.
func buildSource(ctx context.Context, cfg config.Config, logger logx.Logger) (ports.CandidateSource, error) {
	if cfg.SinglePassword() {
		return candidates.NewSingle(cfg.Input.Password), nil
	}

	scheduler, err := workerpool.ParseScheduler(cfg.Input.Order)
	if err != nil {
		return nil, err
	}
	streaming := scheduler.Name() == "fifo"

	var source ports.CandidateSource
	if cfg.Generating() {
		source, err = buildGenerator(cfg, logger)
	} else {
		source, err = candidates.NewWordlist(cfg.Input.Wordlist, candidates.WordlistOptions{
			// Reordenar necesita cargar todo igualmente; contar antes sería una pasada extra
			Count:     cfg.Input.Count && streaming,
			MinLength: cfg.Input.MinLength,
			MaxLength: cfg.Input.MaxLength,
			Logger:    logger,
		})
	}
	if err != nil {
		return nil, err
	}

	if streaming {
		return source, nil
	}

	logger.Debug("loading candidates for reordering", "source", source.Name(), "order", scheduler.Name())
	return candidates.Load(ctx, source, scheduler)
}

func buildGenerator(cfg config.Config, logger logx.Logger) (*candidates.Generator, error) {
	keywords, err := candidates.LoadKeywords(cfg.Generate.Keywords)
	if err != nil {
		return nil, err
	}

	g := cfg.Generate
	opts := candidates.GeneratorOptions{
		Keywords:  keywords,
		Patterns:  candidates.ParsePatterns(g.Patterns),
		MinOrder:  g.MinOrder,
		MaxOrder:  g.MaxOrder,
		Mode:      g.Mode,
		CaseMode:  g.CaseMode,
		Reverse:   g.Reverse,
		Prepend:   g.Prepend,
		Append:    g.Append,
		AddNum:    g.AddNum,
		NumStart:  g.NumStart,
		NumEnd:    g.NumEnd,
		NumPad:    g.NumPad,
		MinLength: cfg.Input.MinLength,
		MaxLength: cfg.Input.MaxLength,
		SkipEmpty: g.SkipEmpty,
		Logger:    logger,
	}
	if g.Leet {
		opts.LeetLevel = g.LeetLevel
	}

	gen, err := candidates.NewGenerator(opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("keyword generator ready",
		"keywords", len(keywords),
		"mode", g.Mode,
		"candidates", gen.Len(),
	)
	return gen, nil
}
