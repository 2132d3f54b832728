// Package reconcile decides whether records from independent, unreliable
// sources describe the same real-world fixture, and merges stream servers
// into the canonical match set when they do.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/clock"
	"github.com/fortuna/kickoff/internal/names"
	"github.com/fortuna/kickoff/internal/schedule"
	"github.com/fortuna/kickoff/internal/similarity"
)

// Candidate is one parsed server-listing record, already translated and
// converted into the reference time zone by its source adapter.
type Candidate struct {
	League   string
	HomeTeam string
	AwayTeam string

	// Date may be empty for dateless sources; Time is reference-zone HH:MM.
	Date string
	Time string

	IsWomens bool

	// Servers carried by this record. An empty label requests a sequential
	// per-match "CH-n" label at merge time.
	Servers []schedule.Server
}

// Metrics tracks reconciliation outcomes across one run.
type Metrics struct {
	Candidates   int
	Rejected     int
	Merged       int
	Orphans      int
	Discarded    int
	ServersAdded int
}

// Engine reconciles candidates against the canonical match set. It is not
// safe for concurrent use: iteration order over the set is part of the
// matching semantics (first sufficiently-scoring match wins, no
// backtracking), so all reconciliation runs single-threaded.
type Engine struct {
	set     *schedule.Set
	log     *zap.Logger
	metrics Metrics
}

// NewEngine creates an engine mutating the given canonical set.
func NewEngine(set *schedule.Set, log *zap.Logger) *Engine {
	return &Engine{set: set, log: log}
}

// Metrics returns the outcome counters accumulated so far.
func (e *Engine) Metrics() Metrics {
	return e.metrics
}

// Reconcile runs one candidate through the two-outcome state machine:
// merged into an existing match, or (per policy) promoted to an orphan
// match. Either way the candidate is never revisited.
func (e *Engine) Reconcile(c Candidate, p Policy) {
	p = p.withDefaults()
	e.metrics.Candidates++

	homeNorm := names.Normalize(c.HomeTeam)
	awayNorm := names.Normalize(c.AwayTeam)
	if len([]rune(homeNorm)) < 2 || len([]rune(awayNorm)) < 2 {
		e.metrics.Rejected++
		e.log.Warn("candidate rejected: team names missing or too short",
			zap.String("source", p.Source),
			zap.String("home", c.HomeTeam), zap.String("away", c.AwayTeam))
		return
	}

	leagueNorm := names.Normalize(c.League)

	for _, m := range e.set.Matches() {
		if p.GenderGate && m.IsWomens != c.IsWomens {
			continue
		}

		if similarity.Ratio(leagueNorm, names.Normalize(m.League)) < p.LeagueThreshold {
			continue
		}

		timeMatch := clock.WithinWindow(c.Time, m.KickoffTime, p.TimeWindow)
		dateMatch := p.UseDateGate && c.Date != "" && c.Date == m.KickoffDate
		if !timeMatch && !dateMatch {
			continue
		}

		team1Norm := names.Normalize(m.Team1.Name)
		team2Norm := names.Normalize(m.Team2.Name)
		straight := e.teamMatch(homeNorm, team1Norm, p) && e.teamMatch(awayNorm, team2Norm, p)
		swapped := e.teamMatch(homeNorm, team2Norm, p) && e.teamMatch(awayNorm, team1Norm, p)
		if !straight && !swapped {
			continue
		}

		added := e.mergeServers(m, c.Servers)
		e.metrics.Merged++
		e.metrics.ServersAdded += added
		e.log.Info("candidate merged",
			zap.String("source", p.Source), zap.String("match", m.ID),
			zap.String("home", c.HomeTeam), zap.String("away", c.AwayTeam),
			zap.Int("servers_added", added))
		return
	}

	if !p.CreateOrphans {
		e.metrics.Discarded++
		e.log.Info("no canonical match for candidate, servers discarded",
			zap.String("source", p.Source),
			zap.String("home", c.HomeTeam), zap.String("away", c.AwayTeam),
			zap.String("league", c.League), zap.String("time", c.Time))
		return
	}

	orphan := e.createOrphan(c)
	added := e.mergeServers(orphan, c.Servers)
	e.metrics.Orphans++
	e.metrics.ServersAdded += added
	e.log.Info("orphan match created",
		zap.String("source", p.Source), zap.String("match", orphan.ID),
		zap.Int("servers_added", added))
}

// teamMatch scores one candidate name against one canonical name. Short
// names use the lowered threshold since edit-distance ratios are unstable
// on them.
func (e *Engine) teamMatch(a, b string, p Policy) bool {
	if a == "" || b == "" {
		return false
	}
	threshold := p.TeamThreshold
	if len([]rune(a)) < p.ShortNameCutoff || len([]rune(b)) < p.ShortNameCutoff {
		threshold = p.ShortTeamThreshold
	}
	var score int
	if p.UsePartialRatio {
		score = similarity.Score(a, b)
	} else {
		score = similarity.Ratio(a, b)
	}
	return score >= threshold
}

// mergeServers appends the candidate's servers to the match with URL dedup
// against both the match's existing list and servers added earlier from the
// same candidate. Existing entries keep their positions.
func (e *Engine) mergeServers(m *schedule.Match, servers []schedule.Server) int {
	added := 0
	seen := make(map[string]bool)
	for _, srv := range servers {
		normalized := schedule.NormalizeServerURL(srv.URL)
		if normalized == "" || seen[normalized] || m.HasServer(srv.URL) {
			continue
		}
		if srv.Label == "" {
			srv.Label = m.NextSequentialLabel()
		}
		if m.AddServer(srv) {
			seen[normalized] = true
			added++
		}
	}
	return added
}

// createOrphan inserts a new match built from the candidate alone: empty
// logos, league inferred from the listing, servers attached by the caller.
func (e *Engine) createOrphan(c Candidate) *schedule.Match {
	matchTime, err := clock.PreRoll(c.Time)
	if err != nil {
		e.log.Debug("orphan pre-roll time unavailable", zap.Error(err))
	}
	m := &schedule.Match{
		ID:          schedule.BuildMatchID(c.HomeTeam, c.AwayTeam),
		League:      c.League,
		Team1:       schedule.Team{Name: c.HomeTeam},
		Team2:       schedule.Team{Name: c.AwayTeam},
		KickoffDate: c.Date,
		KickoffTime: c.Time,
		MatchDate:   c.Date,
		MatchTime:   matchTime,
		Duration:    schedule.DefaultDuration,
		Icon:        schedule.DefaultIcon,
		Servers:     []schedule.Server{},
		IsWomens:    c.IsWomens,
	}
	e.set.Upsert(m)
	return m
}
