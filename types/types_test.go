package types

import (
	"reflect"
	"testing"
)

func TestPosition_ManhattanDistance(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{NewPosition(0, 0), NewPosition(3, 4), 7},
		{NewPosition(3, 4), NewPosition(0, 0), 7},
		{NewPosition(-2, 5), NewPosition(2, 1), 8},
		{NewPosition(1, 1), NewPosition(1, 1), 0},
	}
	for _, tt := range tests {
		if got := tt.a.ManhattanDistance(tt.b); got != tt.want {
			t.Errorf("%v.ManhattanDistance(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDirection_Turns(t *testing.T) {
	if North.TurnLeft() != West {
		t.Errorf("North.TurnLeft() = %v, want West", North.TurnLeft())
	}
	if West.TurnLeft() != South {
		t.Errorf("West.TurnLeft() = %v, want South", West.TurnLeft())
	}
	if North.TurnRight() != East {
		t.Errorf("North.TurnRight() = %v, want East", North.TurnRight())
	}
	if West.TurnRight() != North {
		t.Errorf("West.TurnRight() = %v, want North", West.TurnRight())
	}

	// Four turns in either direction return to start.
	for _, d := range []Direction{North, East, South, West} {
		if d.TurnLeft().TurnLeft().TurnLeft().TurnLeft() != d {
			t.Errorf("four left turns from %v did not return to start", d)
		}
	}
}

func TestDirection_Forward(t *testing.T) {
	pos := NewPosition(5, 5)
	tests := []struct {
		dir  Direction
		want Position
	}{
		{North, NewPosition(5, 4)},
		{East, NewPosition(6, 5)},
		{South, NewPosition(5, 6)},
		{West, NewPosition(4, 5)},
	}
	for _, tt := range tests {
		if got := tt.dir.Forward(pos); got != tt.want {
			t.Errorf("%v.Forward(%v) = %v, want %v", tt.dir, pos, got, tt.want)
		}
	}
}

func TestDiceRoll_Bounds(t *testing.T) {
	tests := []struct {
		roll          DiceRoll
		min, max, avg int
	}{
		{NewDiceRoll(3, 6, 2), 5, 20, 12},
		{NewDiceRoll(1, 8, 0), 1, 8, 4},
		{NewDiceRoll(2, 6, 3), 5, 15, 10},
		{NewDiceRoll(1, 6, -10), 0, 0, 0}, // clamped at zero
	}
	for _, tt := range tests {
		if got := tt.roll.Min(); got != tt.min {
			t.Errorf("%+v.Min() = %d, want %d", tt.roll, got, tt.min)
		}
		if got := tt.roll.Max(); got != tt.max {
			t.Errorf("%+v.Max() = %d, want %d", tt.roll, got, tt.max)
		}
		if got := tt.roll.Average(); got != tt.avg {
			t.Errorf("%+v.Average() = %d, want %d", tt.roll, got, tt.avg)
		}
	}
}

func TestAttributePair_ResetAndModify(t *testing.T) {
	hp := NewAttributePair(20)
	if hp.Base != 20 || hp.Current != 20 {
		t.Fatalf("NewAttributePair(20) = %+v", hp)
	}

	hp.Modify(-7)
	if hp.Current != 13 {
		t.Errorf("Current after -7 = %d, want 13", hp.Current)
	}
	if hp.Base != 20 {
		t.Errorf("Base changed to %d, want 20", hp.Base)
	}

	hp.Reset()
	if hp.Current != 20 {
		t.Errorf("Current after Reset = %d, want 20", hp.Current)
	}
}

func TestAttributePair_Saturation(t *testing.T) {
	a := AttributePair{Base: 0, Current: maxInt - 1}
	a.Modify(10)
	if a.Current != maxInt {
		t.Errorf("overflow did not saturate: %d", a.Current)
	}

	b := AttributePair{Base: 0, Current: minInt + 1}
	b.Modify(-10)
	if b.Current != minInt {
		t.Errorf("underflow did not saturate: %d", b.Current)
	}
}

func TestConditionSet_CanAct(t *testing.T) {
	tests := []struct {
		name   string
		conds  []Condition
		canAct bool
	}{
		{"none", nil, true},
		{"poisoned only", []Condition{Poisoned}, true},
		{"silenced only", []Condition{Silenced}, true},
		{"paralyzed", []Condition{Paralyzed}, false},
		{"asleep", []Condition{Asleep}, false},
		{"dead", []Condition{Dead}, false},
		{"unconscious", []Condition{Unconscious}, false},
		{"poisoned and asleep", []Condition{Poisoned, Asleep}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cs ConditionSet
			for _, c := range tt.conds {
				cs.Set(c)
			}
			if got := cs.CanAct(); got != tt.canAct {
				t.Errorf("CanAct() = %v, want %v", got, tt.canAct)
			}
		})
	}
}

func TestConditionSet_SetClear(t *testing.T) {
	var cs ConditionSet
	cs.Set(Poisoned)
	cs.Set(Silenced)

	if !cs.Has(Poisoned) || !cs.Has(Silenced) {
		t.Fatal("expected Poisoned and Silenced set")
	}
	if !cs.IsSilenced() {
		t.Error("IsSilenced() = false")
	}

	cs.Clear(Poisoned)
	if cs.Has(Poisoned) {
		t.Error("Poisoned still set after Clear")
	}
	if !cs.Has(Silenced) {
		t.Error("Clear removed an unrelated condition")
	}

	cs.ClearAll()
	if !cs.IsEmpty() {
		t.Error("IsEmpty() = false after ClearAll")
	}
}

func TestConditionSet_Names(t *testing.T) {
	var cs ConditionSet
	cs.Set(Dead)
	cs.Set(Poisoned)

	got := cs.Names()
	want := []string{"Poisoned", "Dead"} // bit order, not set order
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestGameTime_Advance(t *testing.T) {
	gt := NewGameTime(1, 23, 30)
	gt.AdvanceMinutes(45)
	if gt.Day != 2 || gt.Hour != 0 || gt.Minute != 15 {
		t.Errorf("after 23:30 +45m = day %d %02d:%02d, want day 2 00:15", gt.Day, gt.Hour, gt.Minute)
	}

	gt = NewGameTime(1, 10, 0)
	gt.AdvanceHours(5)
	if gt.Hour != 15 || gt.Day != 1 {
		t.Errorf("after 10:00 +5h = day %d hour %d", gt.Day, gt.Hour)
	}

	gt.AdvanceDays(3)
	if gt.Day != 4 {
		t.Errorf("AdvanceDays(3): day = %d, want 4", gt.Day)
	}
}

func TestGameTime_DayNight(t *testing.T) {
	tests := []struct {
		hour  int
		night bool
	}{
		{0, true}, {3, true}, {5, true},
		{6, false}, {12, false}, {17, false},
		{18, true}, {23, true},
	}
	for _, tt := range tests {
		gt := NewGameTime(1, tt.hour, 0)
		if gt.IsNight() != tt.night {
			t.Errorf("hour %d: IsNight() = %v, want %v", tt.hour, gt.IsNight(), tt.night)
		}
		if gt.IsDay() == tt.night {
			t.Errorf("hour %d: IsDay() inconsistent with IsNight()", tt.hour)
		}
	}
}
