package world

import "github.com/Mistranger/stratagus-sub001/model"

// BuildTime is the progress a unit of t needs to finish construction.
func BuildTime(t *model.UnitType) int {
	return max(t.Costs[model.TimeCost], 1)
}

// AddBuildProgress advances an under-construction unit by delta progress
// units. Hit points rise by the share of max HP the progress represents,
// so damage taken while building is kept. It reports whether construction
// is complete.
func AddBuildProgress(u *model.Unit, delta int) bool {
	total := BuildTime(u.Type)
	before := u.Progress * u.MaxHP() / total
	u.Progress = min(u.Progress+delta, total)
	after := u.Progress * u.MaxHP() / total
	u.HP = min(u.HP+after-before, u.MaxHP())
	return u.Progress >= total
}
