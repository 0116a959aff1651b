package world

import "github.com/justchen1369/acolyte-fight-sub000/spells/contract"

// Alliance is the relationship of a target to a source, as a bit so
// templates can match several at once.
type Alliance uint8

const (
	AllianceSelf  Alliance = 1
	AllianceAlly  Alliance = 2
	AllianceEnemy Alliance = 4
)

func allianceOf(a contract.Alliance) Alliance {
	switch a {
	case contract.AllianceSelf:
		return AllianceSelf
	case contract.AllianceAlly:
		return AllianceAlly
	case contract.AllianceEnemy:
		return AllianceEnemy
	default:
		return 0
	}
}

// allianceMask folds alliances into a mask, using fallback for an empty list.
func allianceMask(alliances []contract.Alliance, fallback Alliance) Alliance {
	if len(alliances) == 0 {
		return fallback
	}
	var mask Alliance
	for _, a := range alliances {
		mask |= allianceOf(a)
	}
	return mask
}

// alliance classifies toID relative to fromID. Damage from the environment
// has no source and counts as hostile to everyone.
func (w *World) alliance(fromID, toID string) Alliance {
	switch {
	case fromID == "":
		return AllianceEnemy
	case fromID == toID:
		return AllianceSelf
	case w.teamOf(fromID) == w.teamOf(toID):
		return AllianceAlly
	default:
		return AllianceEnemy
	}
}
