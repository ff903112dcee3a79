package planner

import (
	"fmt"

	"github.com/kilianp07/raidplan/core/logger"
	"github.com/kilianp07/raidplan/core/model"
)

func dps(id, owner, job string, power, cp float64) model.Character {
	return model.Character{ID: id, OwnerKey: owner, JobCode: job, Role: model.RoleDPS, PowerLevel: power, CombatPower: cp}
}

func sup(id, owner, job string, power, cp float64) model.Character {
	return model.Character{ID: id, OwnerKey: owner, JobCode: job, Role: model.RoleSupport, PowerLevel: power, CombatPower: cp}
}

func boolPtr(v bool) *bool { return &v }

// sampleRoster builds a deterministic roster of owners holding one to three
// characters each, spread over several power bands.
func sampleRoster(owners int) []model.Character {
	dpsJobs := []string{"버서커", "디트", "건슬", "블레", "소서", "기상", "슬레", "워로", "창술", "데헌"}
	supJobs := []string{"바드", "홀나", "도화가"}
	levels := []float64{1700, 1712, 1725, 1741}
	var out []model.Character
	for o := 0; o < owners; o++ {
		owner := fmt.Sprintf("owner%02d", o)
		count := 1 + o%3
		for c := 0; c < count; c++ {
			id := fmt.Sprintf("%s-%d", owner, c)
			power := levels[(o+c)%len(levels)]
			cp := float64(1500 + (o*37+c*91)%900)
			if (o+c)%4 == 0 {
				out = append(out, sup(id, owner, supJobs[(o+c)%len(supJobs)], power, cp))
				continue
			}
			out = append(out, dps(id, owner, dpsJobs[(o*3+c)%len(dpsJobs)], power, cp))
		}
	}
	return out
}

func nopLog() logger.Logger { return logger.NopLogger{} }
