package types

// Stats is the seven-attribute block shared by characters and monsters.
type Stats struct {
	Might       AttributePair `json:"might"`
	Intellect   AttributePair `json:"intellect"`
	Personality AttributePair `json:"personality"`
	Endurance   AttributePair `json:"endurance"`
	Speed       AttributePair `json:"speed"`
	Accuracy    AttributePair `json:"accuracy"`
	Luck        AttributePair `json:"luck"`
}

// NewStats returns a stat block with every attribute at the given base.
func NewStats(base int) Stats {
	return Stats{
		Might:       NewAttributePair(base),
		Intellect:   NewAttributePair(base),
		Personality: NewAttributePair(base),
		Endurance:   NewAttributePair(base),
		Speed:       NewAttributePair(base),
		Accuracy:    NewAttributePair(base),
		Luck:        NewAttributePair(base),
	}
}

// ResetAll restores every attribute's current value to its base.
func (s *Stats) ResetAll() {
	s.Might.Reset()
	s.Intellect.Reset()
	s.Personality.Reset()
	s.Endurance.Reset()
	s.Speed.Reset()
	s.Accuracy.Reset()
	s.Luck.Reset()
}
