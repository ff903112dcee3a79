package planner

import (
	"math"

	"github.com/kilianp07/raidplan/core/logger"
	"github.com/kilianp07/raidplan/core/model"
)

// Planner builds schedules from a roster. A Planner holds no state between
// calls and is safe for concurrent use.
type Planner struct {
	cfg    Config
	log    logger.Logger
	source func(seed uint32) Source
}

// Option customises a Planner.
type Option func(*Planner)

// WithSource replaces the random source constructor.
func WithSource(f func(seed uint32) Source) Option {
	return func(p *Planner) {
		if f != nil {
			p.source = f
		}
	}
}

// New returns a Planner using cfg. Zero values in cfg are replaced by
// defaults.
func New(cfg Config, log logger.Logger, opts ...Option) *Planner {
	cfg.SetDefaults()
	p := &Planner{
		cfg:    cfg,
		log:    logger.OrNop(log),
		source: func(seed uint32) Source { return NewMulberry32(seed) },
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Config returns the effective configuration.
func (p *Planner) Config() Config { return p.cfg }

// BuildSchedule schedules every tier with the default planner and discards
// the report.
func BuildSchedule(chars []model.Character, excl model.ExclusionMap, mode model.BalanceMode, settings model.SettingsMap) model.Schedule {
	s, _ := New(DefaultConfig(), nil).BuildSchedule(chars, excl, mode, settings)
	return s
}

// BuildSchedule classifies chars into tier buckets and packs each bucket into
// runs. Buckets are processed in model.AllRaids order and share one random
// source seeded from the configuration. Unknown balance modes fall back to
// speed. The returned schedule lists every tier, possibly with no runs.
func (p *Planner) BuildSchedule(chars []model.Character, excl model.ExclusionMap, mode model.BalanceMode, settings model.SettingsMap) (model.Schedule, Report) {
	strategy, err := StrategyFor(mode)
	if err != nil {
		p.log.Warnf("%v, using %s", err, model.BalanceSpeed)
		mode = model.BalanceSpeed
		strategy = NewSpeedStrategy()
	}
	rep := Report{Seed: p.cfg.Seed, Mode: mode}
	k := packer{cfg: p.cfg, strategy: strategy, log: p.log, report: &rep}
	rng := p.source(p.cfg.Seed)

	sched := model.NewSchedule()
	for _, b := range p.cfg.Bucketize(chars, excl) {
		pool := b.Characters
		shortage := settings[b.Raid]
		if shortage {
			var ids []string
			pool, ids = p.cfg.Promote(b.Raid, pool)
			rep.promoted(b.Raid, ids)
		}

		members, locked := k.pack(b.Raid, pool, shortage, rng)
		runs := assemble(b.Raid, members, locked, &rep)
		sched[b.Raid] = runs

		summary := summarize(b.Raid, len(pool), runs)
		rep.Tiers = append(rep.Tiers, summary)
		if len(pool) > 0 {
			p.log.Debugw("tier scheduled", map[string]any{
				"raid":       string(b.Raid),
				"characters": summary.Characters,
				"runs":       summary.Runs,
				"supports":   summary.Supports,
				"spread":     summary.Spread,
				"shortage":   shortage,
			})
		}
	}
	return sched, rep
}

// assemble turns packed member lists into runs with parties, then moves
// lone supports where they are missing.
func assemble(raid model.RaidID, members runSet, locked map[string]struct{}, rep *Report) []model.Run {
	runs := make([]model.Run, 0, len(members))
	for _, m := range members {
		if len(m) == 0 {
			continue
		}
		parties, overflow := SplitParties(m, raid)
		rep.overflow(raid, overflow)
		runs = append(runs, model.Run{RaidID: raid, RunIndex: len(runs) + 1, Parties: parties})
	}
	runs = RebalanceSupports(runs, locked)
	for i := range runs {
		runs[i].AverageCombatPower = math.Round(runAverage(runs[i].Members()))
	}
	return runs
}

func summarize(raid model.RaidID, characters int, runs []model.Run) TierSummary {
	s := TierSummary{Raid: raid, Characters: characters, Runs: len(runs)}
	avgs := make([]float64, 0, len(runs))
	for _, r := range runs {
		members := r.Members()
		s.Supports += countSupports(members)
		avgs = append(avgs, runAverage(members))
	}
	s.Spread = popStdDev(avgs)
	return s
}
