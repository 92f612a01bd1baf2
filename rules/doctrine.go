package rules

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownDoctrine is returned by DoctrineByName for an unregistered name.
var ErrUnknownDoctrine = errors.New("unknown doctrine")

// Doctrine is a high-level strategic posture for an AI player.
// Weights are 0.0–1.0; the compiler maps them to concrete rule parameters.
type Doctrine struct {
	Name            string  `json:"name"`
	EconomyPriority float64 `json:"economy_priority"`
	Aggression      float64 `json:"aggression"`
	DefensePriority float64 `json:"defense_priority"`
	MagicPriority   float64 `json:"magic_priority"`
	RangedWeight    float64 `json:"ranged_weight"`
	SiegeWeight     float64 `json:"siege_weight"`
	AttackGroupSize int     `json:"attack_group_size"`
}

// DefaultDoctrine returns a balanced baseline doctrine.
func DefaultDoctrine() Doctrine {
	return Doctrine{
		Name:            "balanced",
		EconomyPriority: 0.5,
		Aggression:      0.5,
		DefensePriority: 0.5,
		MagicPriority:   0.3,
		RangedWeight:    0.4,
		SiegeWeight:     0.2,
		AttackGroupSize: 6,
	}
}

var presets = map[string]Doctrine{
	"balanced": DefaultDoctrine(),
	"rush": {
		Name:            "rush",
		EconomyPriority: 0.3,
		Aggression:      0.9,
		DefensePriority: 0.2,
		RangedWeight:    0.2,
		AttackGroupSize: 4,
	},
	"turtle": {
		Name:            "turtle",
		EconomyPriority: 0.6,
		Aggression:      0.2,
		DefensePriority: 0.9,
		MagicPriority:   0.5,
		RangedWeight:    0.6,
		SiegeWeight:     0.3,
		AttackGroupSize: 10,
	},
	"boom": {
		Name:            "boom",
		EconomyPriority: 0.9,
		Aggression:      0.3,
		DefensePriority: 0.4,
		MagicPriority:   0.2,
		RangedWeight:    0.4,
		SiegeWeight:     0.2,
		AttackGroupSize: 12,
	},
}

// DoctrineByName returns the named preset (case-insensitive).
func DoctrineByName(name string) (Doctrine, error) {
	d, ok := presets[strings.ToLower(name)]
	if !ok {
		return Doctrine{}, fmt.Errorf("%w: %q", ErrUnknownDoctrine, name)
	}
	return d, nil
}

// Doctrines returns the preset names in sorted order.
func Doctrines() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate clamps all weights to their valid ranges.
func (d *Doctrine) Validate() {
	d.EconomyPriority = clamp(d.EconomyPriority, 0, 1)
	d.Aggression = clamp(d.Aggression, 0, 1)
	d.DefensePriority = clamp(d.DefensePriority, 0, 1)
	d.MagicPriority = clamp(d.MagicPriority, 0, 1)
	d.RangedWeight = clamp(d.RangedWeight, 0, 1)
	d.SiegeWeight = clamp(d.SiegeWeight, 0, 1)
	d.AttackGroupSize = clampInt(d.AttackGroupSize, 2, 20)
}

// Shift moves the posture toward defense by delta (negative toward
// aggression) and returns the adjusted copy.
func (d Doctrine) Shift(delta float64) Doctrine {
	d.DefensePriority += delta
	d.Aggression -= delta
	d.Validate()
	return d
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// lerp linearly interpolates between min and max by t (0–1), returning an int.
func lerp(min, max int, t float64) int {
	return min + int(math.Round(float64(max-min)*t))
}
