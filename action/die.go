package action

import (
	"log/slog"

	"github.com/Mistranger/stratagus-sub001/anim"
	"github.com/Mistranger/stratagus-sub001/model"
	"github.com/Mistranger/stratagus-sub001/world"
)

// HandleDie plays the death animation of a dying unit and releases it
// when the animation is over.
func HandleDie(w *world.World, u *model.Unit) {
	if anim.Show(u, u.Type.Animations.Die)&model.AnimEnd == 0 {
		return
	}
	slog.Debug("unit released", "unit", u)
	w.ReleaseUnit(u)
}

// HandleBuilt advances a site under construction. A finished building
// becomes idle at full progress, keeping any damage taken meanwhile, and
// starts supplying food.
func HandleBuilt(w *world.World, u *model.Unit) {
	u.Wait = 1
	if u.Progress < world.BuildTime(u.Type) && !world.AddBuildProgress(u, w.SpeedBuild) {
		return
	}
	w.FinishSite(u)
	u.Reset = true
	w.NotifyUnit(u, "New %s done", nameOf(u.Type))
	w.PlaySound(u, world.SoundReady)
	slog.Debug("construction complete", "unit", u, "hp", u.HP)
}
