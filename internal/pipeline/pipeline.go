// Package pipeline wires the full aggregation batch: fetch every source,
// build the canonical fixture set, reconcile the listing sources into it,
// apply manual overrides and persist the result.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
	"github.com/fortuna/kickoff/internal/fetch"
	"github.com/fortuna/kickoff/internal/manual"
	"github.com/fortuna/kickoff/internal/output"
	"github.com/fortuna/kickoff/internal/reconcile"
	"github.com/fortuna/kickoff/internal/schedule"
	"github.com/fortuna/kickoff/internal/source/flashscore"
	"github.com/fortuna/kickoff/internal/source/rereyano"
	"github.com/fortuna/kickoff/internal/source/sportsonline"
	"github.com/fortuna/kickoff/internal/translate"
)

// Config holds one pipeline's settings.
type Config struct {
	// ReferenceZone is the IANA zone all output times are expressed in.
	ReferenceZone string

	// Days is the fixture window: today through today+Days.
	Days int

	CacheDir string
	CacheTTL time.Duration

	OutputPath       string
	TranslationsPath string
	ManualPath       string

	FetchAttempts    int
	FetchRetryDelay  time.Duration
	FetchConcurrency int
	HTTPTimeout      time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ReferenceZone:    "Asia/Jakarta",
		Days:             2,
		CacheDir:         "cache",
		CacheTTL:         fetch.DefaultCacheTTL,
		OutputPath:       "data/schedule.json",
		TranslationsPath: "data/translations.json",
		ManualPath:       "data/manual_matches.json",
		FetchAttempts:    3,
		FetchRetryDelay:  5 * time.Second,
		FetchConcurrency: 4,
		HTTPTimeout:      15 * time.Second,
	}
}

// Sources is the full source roster for one run. Slice order is load
// order, which is part of the matching semantics: fixtures build the
// canonical set first, then agendas reconcile before listings so their
// labeled channels surface ahead of sequential ones.
type Sources struct {
	Fixtures []flashscore.Source
	Agendas  []rereyano.Source
	Listings []sportsonline.Source

	AgendaPolicy  reconcile.Policy
	ListingPolicy reconcile.Policy
}

// DefaultSources returns the production source roster.
func DefaultSources() (Sources, error) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		return Sources{}, err
	}
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return Sources{}, err
	}

	return Sources{
		Fixtures: []flashscore.Source{
			{
				Name:      "flashscore-cwc",
				URL:       "https://www.flashscore.com/football/world/fifa-club-world-cup/fixtures/",
				League:    "FIFA Club World Cup",
				CacheFile: "flashscore_cwc.html",
				Zone:      london,
			},
			{
				Name:      "flashscore-wsl",
				URL:       "https://www.flashscore.com/football/england/wsl-women/fixtures/",
				League:    "Women's Super League",
				CacheFile: "flashscore_wsl.html",
				Zone:      london,
			},
		},
		Agendas: []rereyano.Source{
			{
				Name:      "rereyano",
				URL:       "https://rereyano.ru/",
				CacheFile: "rereyano.html",
				Zone:      paris,
			},
		},
		Listings: []sportsonline.Source{
			{
				Name:                "sportsonline",
				URL:                 "https://sportsonline.si/prog.txt",
				CacheFile:           "sportsonline.txt",
				Zone:                london,
				DefaultLeague:       "FIFA Club World Cup",
				DefaultWomensLeague: "Women's International",
			},
		},
		AgendaPolicy: reconcile.Policy{
			Source:          "rereyano",
			UseDateGate:     true,
			UsePartialRatio: true,
			CreateOrphans:   true,
		},
		ListingPolicy: reconcile.Policy{
			Source:          "sportsonline",
			UsePartialRatio: true,
			GenderGate:      true,
		},
	}, nil
}

// Result summarizes one completed run.
type Result struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Matches       []*schedule.Match
	Metrics       reconcile.Metrics
	OutputChanged bool
	Encoded       []byte
}

// Pipeline owns the fetchers, parsers and writer for repeated runs.
type Pipeline struct {
	cfg     Config
	sources Sources

	conv       *clock.Converter
	translator *translate.Translator

	browser *fetch.Browser
	httpc   *fetch.HTTPClient
	loader  *fetch.Loader

	fixtureParser *flashscore.Parser
	agendaParser  *rereyano.Parser
	listingParser *sportsonline.Parser

	writer *output.Writer
	log    *zap.Logger

	// runs are serialized: reconciliation order is part of the semantics.
	mu sync.Mutex
}

// New builds a pipeline from config. The translation dictionary and
// reference zone are loaded once; a bad zone is a startup error, a missing
// dictionary is not.
func New(cfg Config, sources Sources, log *zap.Logger) (*Pipeline, error) {
	refZone, err := time.LoadLocation(cfg.ReferenceZone)
	if err != nil {
		return nil, err
	}
	conv := clock.NewConverter(refZone)

	dict := translate.LoadDictionary(cfg.TranslationsPath, log)
	translator := translate.NewTranslator(dict, log)

	cache := fetch.NewCache(cfg.CacheDir, cfg.CacheTTL, log)
	loader := fetch.NewLoader(cache, cfg.FetchAttempts, cfg.FetchRetryDelay, log)

	return &Pipeline{
		cfg:           cfg,
		sources:       sources,
		conv:          conv,
		translator:    translator,
		browser:       fetch.NewBrowser(log),
		httpc:         fetch.NewHTTPClient(cfg.HTTPTimeout),
		loader:        loader,
		fixtureParser: flashscore.NewParser(conv, log),
		agendaParser:  rereyano.NewParser(conv, translator, log),
		listingParser: sportsonline.NewParser(conv, translator, log),
		writer:        output.NewWriter(cfg.OutputPath, log),
		log:           log,
	}, nil
}

// Close releases the browser.
func (p *Pipeline) Close() {
	p.browser.Close()
}

// Run executes one full aggregation batch. Source failures degrade to
// empty payloads; only output persistence errors are fatal to the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := time.Now()
	now := started.In(p.conv.Location())

	payloads := p.fetchAll(ctx)

	set := schedule.NewSet()
	for _, src := range p.sources.Fixtures {
		body := payloads[src.CacheFile]
		if body == "" {
			continue
		}
		for _, m := range p.fixtureParser.Parse(body, src, now, p.cfg.Days) {
			set.Upsert(m)
		}
	}
	p.log.Info("canonical set built", zap.Int("matches", set.Len()))

	engine := reconcile.NewEngine(set, p.log)

	for _, src := range p.sources.Agendas {
		body := payloads[src.CacheFile]
		if body == "" {
			continue
		}
		known := set.TeamNames()
		for _, c := range p.agendaParser.Parse(body, src, now, p.cfg.Days, known) {
			engine.Reconcile(c, p.sources.AgendaPolicy)
		}
	}

	for _, src := range p.sources.Listings {
		body := payloads[src.CacheFile]
		if body == "" {
			continue
		}
		known := set.TeamNames()
		for _, c := range p.listingParser.Parse(body, src, now, known) {
			engine.Reconcile(c, p.sources.ListingPolicy)
		}
	}

	overrides := manual.Load(p.cfg.ManualPath, p.log)
	manual.Apply(overrides, set, p.log)

	matches := set.Matches()
	changed, err := p.writer.Write(matches)
	if err != nil {
		return nil, err
	}

	encoded, err := output.Encode(matches)
	if err != nil {
		return nil, err
	}

	metrics := engine.Metrics()
	p.log.Info("run complete",
		zap.Int("matches", len(matches)),
		zap.Int("candidates", metrics.Candidates),
		zap.Int("merged", metrics.Merged),
		zap.Int("orphans", metrics.Orphans),
		zap.Int("discarded", metrics.Discarded),
		zap.Int("servers_added", metrics.ServersAdded),
		zap.Bool("output_changed", changed),
		zap.Duration("took", time.Since(started)))

	return &Result{
		StartedAt:     started,
		FinishedAt:    time.Now(),
		Matches:       matches,
		Metrics:       metrics,
		OutputChanged: changed,
		Encoded:       encoded,
	}, nil
}

// fetchAll loads every source concurrently. Fixture and agenda pages need
// browser rendering; listings are plain text over HTTP. Failed sources are
// simply absent from the returned map.
func (p *Pipeline) fetchAll(ctx context.Context) map[string]string {
	var mu sync.Mutex
	payloads := make(map[string]string)
	store := func(name, body string) {
		mu.Lock()
		payloads[name] = body
		mu.Unlock()
	}

	pl := pool.New().WithMaxGoroutines(p.cfg.FetchConcurrency)

	for _, src := range p.sources.Fixtures {
		src := src
		pl.Go(func() {
			if body, err := p.loader.Load(ctx, p.browser, src.URL, src.CacheFile); err == nil {
				store(src.CacheFile, body)
			}
		})
	}
	for _, src := range p.sources.Agendas {
		src := src
		pl.Go(func() {
			if body, err := p.loader.Load(ctx, p.browser, src.URL, src.CacheFile); err == nil {
				store(src.CacheFile, body)
			}
		})
	}
	for _, src := range p.sources.Listings {
		src := src
		pl.Go(func() {
			if body, err := p.loader.Load(ctx, p.httpc, src.URL, src.CacheFile); err == nil {
				store(src.CacheFile, body)
			}
		})
	}

	pl.Wait()
	p.log.Info("fetch phase complete", zap.Int("sources_loaded", len(payloads)))
	return payloads
}
