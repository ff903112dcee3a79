package planner

import (
	"fmt"

	"github.com/kilianp07/raidplan/core/model"
)

// score is a lexicographic placement score; lower wins.
type score [3]float64

func (s score) less(o score) bool {
	for i := range s {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return false
}

// Strategy ranks candidate runs during greedy placement and refines the
// packing afterwards. One Strategy exists per balance mode.
type Strategy interface {
	Mode() model.BalanceMode
	score(p *packing, run int, ch model.Character) score
	refine(p *packing)
}

// StrategyFor returns the strategy implementing mode.
func StrategyFor(mode model.BalanceMode) (Strategy, error) {
	switch mode {
	case model.BalanceOverall:
		return VarianceStrategy{}, nil
	case model.BalanceRole:
		return VarianceStrategy{ByRole: true}, nil
	case model.BalanceSpeed:
		return NewSpeedStrategy(), nil
	}
	return nil, fmt.Errorf("%w: %q", model.ErrUnknownBalanceMode, mode)
}

// VarianceStrategy spreads power evenly. Runs with the least power are
// filled first and a seeded hill climber then minimises the standard
// deviation of run averages, per role when ByRole is set.
type VarianceStrategy struct {
	ByRole bool
	// MovesPerCharacter bounds the local search.
	MovesPerCharacter int
}

func (v VarianceStrategy) Mode() model.BalanceMode {
	if v.ByRole {
		return model.BalanceRole
	}
	return model.BalanceOverall
}

func (v VarianceStrategy) score(p *packing, run int, ch model.Character) score {
	metric := p.total[run]
	if v.ByRole {
		if ch.IsSupport() {
			metric = p.sup[run]
		} else {
			metric = p.dps[run]
		}
	}
	return score{metric, float64(len(p.runs[run])), float64(run)}
}

func (v VarianceStrategy) refine(p *packing) {
	moves := v.MovesPerCharacter
	if moves <= 0 {
		moves = 40
	}
	hillClimb(p, v.ByRole, moves)
}

// SpeedStrategy fills the fullest eligible run first, then searches for
// moves that fill runs and swaps that even out power.
type SpeedStrategy struct {
	MovesPerCharacter int
	SwapsPerCharacter int
}

// NewSpeedStrategy returns a SpeedStrategy with default search budgets.
func NewSpeedStrategy() SpeedStrategy {
	return SpeedStrategy{MovesPerCharacter: 60, SwapsPerCharacter: 120}
}

func (SpeedStrategy) Mode() model.BalanceMode { return model.BalanceSpeed }

func (SpeedStrategy) score(p *packing, run int, _ model.Character) score {
	return score{-float64(len(p.runs[run])), p.total[run], float64(run)}
}

func (s SpeedStrategy) refine(p *packing) {
	newSpeedSearch(p).run(s.MovesPerCharacter, s.SwapsPerCharacter)
}
