package workout

import "slices"

type Equipment string

const (
	EquipmentBodyweight  Equipment = "bodyweight"
	EquipmentBandsOnly   Equipment = "bands_only"
	EquipmentHomeWeights Equipment = "home_weights"
	EquipmentFullGym     Equipment = "full_gym"
)

// equipmentTiers are ordered from the least to the most equipped.
// Each tier includes the equipment of all tiers before it.
var equipmentTiers = []Equipment{
	EquipmentBodyweight,
	EquipmentBandsOnly,
	EquipmentHomeWeights,
	EquipmentFullGym,
}

func EquipmentTiers() []Equipment {
	return slices.Clone(equipmentTiers)
}

// ParseEquipment maps an unknown key to bodyweight.
func ParseEquipment(key string) Equipment {
	e := Equipment(key)
	if slices.Contains(equipmentTiers, e) {
		return e
	}
	return EquipmentBodyweight
}

func (e Equipment) rank() int {
	return slices.Index(equipmentTiers, e)
}

// Unconstrained tiers allow the whole catalog.
func (e Equipment) Unconstrained() bool {
	return e == EquipmentFullGym
}

// Tags returns the cumulative tag set of the tier.
func (e Equipment) Tags() []string {
	r := e.rank()
	if r < 0 {
		r = 0
	}
	tags := make([]string, 0, r+1)
	for _, tier := range equipmentTiers[:r+1] {
		tags = append(tags, string(tier))
	}
	return tags
}

func (e Equipment) allows(ex Exercise) bool {
	if e.Unconstrained() {
		return true
	}
	for _, tag := range e.Tags() {
		if slices.Contains(ex.Equipment, tag) {
			return true
		}
	}
	return false
}

// AvailableExercises selects the catalog exercises usable with the given equipment key.
func AvailableExercises(catalog []Exercise, equipmentKey string) ([]Exercise, error) {
	equipment := ParseEquipment(equipmentKey)

	available := make([]Exercise, 0, len(catalog))
	for _, ex := range catalog {
		if equipment.allows(ex) {
			available = append(available, ex)
		}
	}

	if len(available) == 0 {
		return nil, ErrNoExercisesAvailable
	}
	return available, nil
}
