package game

import (
	"math"
	"testing"

	"github.com/decker502/zsurvive/pkg/types"
)

func TestMixer_Defaults(t *testing.T) {
	m := NewMixer()
	for _, g := range mixerGroups {
		if m.Volume(g) != 1 {
			t.Errorf("%v: expected default volume 1, got %v", g, m.Volume(g))
		}
	}
	if m.SnapshotWeight(0) != 1 || m.SnapshotWeight(1) != 0 {
		t.Errorf("Expected snapshot weights 1/0, got %v/%v", m.SnapshotWeight(0), m.SnapshotWeight(1))
	}
}

func TestMixer_SetVolume(t *testing.T) {
	m := NewMixer()

	tests := []struct {
		name   string
		group  types.AudioType
		value  float64
		ok     bool
		expect float64
	}{
		{"music", types.AudioMusic, 0.4, true, 0.4},
		{"clamp high", types.AudioSFX, 1.7, true, 1},
		{"clamp low", types.AudioDialogue, -0.2, true, 0},
		{"channel is not a group", types.AudioFootsteps, 0.5, false, 0},
		{"none is not a group", types.AudioNone, 0.5, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.SetVolume(tt.group, tt.value); got != tt.ok {
				t.Fatalf("SetVolume ok = %v, want %v", got, tt.ok)
			}
			if tt.ok && m.Volume(tt.group) != tt.expect {
				t.Errorf("Volume = %v, want %v", m.Volume(tt.group), tt.expect)
			}
		})
	}
}

func TestMixer_GainRoutesChannelsToSFX(t *testing.T) {
	m := NewMixer()
	m.SetVolume(types.AudioMaster, 0.5)
	m.SetVolume(types.AudioSFX, 0.5)
	m.SetVolume(types.AudioMusic, 0.8)

	tests := map[types.AudioType]float64{
		types.AudioMaster:    0.5,
		types.AudioMusic:     0.4,
		types.AudioSFX:       0.25,
		types.AudioFootsteps: 0.25,
		types.AudioWeapon:    0.25,
		types.AudioEnemy:     0.25,
		types.AudioDialogue:  0.5,
	}
	for group, want := range tests {
		if got := m.Gain(group); math.Abs(got-want) > 1e-9 {
			t.Errorf("Gain(%v) = %v, want %v", group, got, want)
		}
	}
}

func TestMixer_TransitionTo(t *testing.T) {
	m := NewMixer()
	m.TransitionTo(1, 1.0)

	if m.SnapshotWeight(0) != 0 {
		t.Errorf("Old snapshot should drop to 0 at once, got %v", m.SnapshotWeight(0))
	}
	if m.SnapshotWeight(1) != 0 {
		t.Errorf("New snapshot should start at 0, got %v", m.SnapshotWeight(1))
	}
	if !m.IsTransitioning() {
		t.Error("Expected transition in progress")
	}

	m.Update(0.25)
	if w := m.SnapshotWeight(1); math.Abs(w-0.25) > 1e-9 {
		t.Errorf("Expected weight 0.25, got %v", w)
	}

	m.Update(1)
	if m.SnapshotWeight(1) != 1 || m.IsTransitioning() {
		t.Errorf("Transition should complete, weight=%v", m.SnapshotWeight(1))
	}
}

func TestMixer_TransitionImmediate(t *testing.T) {
	m := NewMixer()
	m.TransitionTo(1, 0)
	if m.SnapshotWeight(1) != 1 || m.IsTransitioning() {
		t.Errorf("Zero duration should switch at once, weight=%v", m.SnapshotWeight(1))
	}

	m.TransitionTo(5, 1)
	if m.SnapshotWeight(1) != 1 {
		t.Error("Invalid slot should be ignored")
	}
}
