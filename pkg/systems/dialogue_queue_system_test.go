package systems

import (
	"testing"

	"github.com/decker502/zsurvive/pkg/game"
)

func TestDialogueQueue_PlaysLinesInOrder(t *testing.T) {
	r := newAudioRig(t, nil)
	queue := NewDialogueQueueSystem(r.am, r.clock)
	first := &game.DialogueLine{ID: "first", Clip: clipOf("first", 0.25)}
	second := &game.DialogueLine{ID: "second", Actor: game.ActorVoices, Clip: clipOf("second", 0.25)}
	queue.Enqueue(first, nil, second)

	if queue.Len() != 2 {
		t.Fatalf("nil lines should be skipped, len=%d", queue.Len())
	}

	queue.Update(0.125)
	if queue.Len() != 1 || r.dialogue.spoken != 1 {
		t.Fatalf("First line should start, len=%d spoken=%d", queue.Len(), r.dialogue.spoken)
	}
	if r.am.CurrentDialogueSource() != r.am.DialogueSource(game.ActorRadio) {
		t.Error("First line should use the radio source")
	}

	queue.Update(0.125)
	if queue.Len() != 1 {
		t.Error("Queue must wait while dialogue is playing")
	}

	r.tick(0.125)
	r.tick(0.125)
	queue.Update(0.125)
	if queue.Len() != 0 || r.dialogue.spoken != 2 {
		t.Errorf("Second line should start after the first ended, len=%d spoken=%d", queue.Len(), r.dialogue.spoken)
	}
	if r.am.CurrentDialogueSource() != r.am.DialogueSource(game.ActorVoices) {
		t.Error("Second line should switch to the voices source")
	}
}

func TestDialogueQueue_HoldsWhilePaused(t *testing.T) {
	r := newAudioRig(t, nil)
	queue := NewDialogueQueueSystem(r.am, r.clock)
	queue.Enqueue(&game.DialogueLine{ID: "intro", Clip: clipOf("intro", 0.25)})

	r.clock.SetTimeScale(0)
	queue.Update(0.125)
	if queue.Len() != 1 || r.dialogue.spoken != 0 {
		t.Error("Paused queue should not start lines")
	}

	r.clock.SetTimeScale(1)
	queue.Update(0.125)
	if queue.Len() != 0 {
		t.Error("Queue should resume after unpause")
	}
}

func TestDialogueQueue_Clear(t *testing.T) {
	r := newAudioRig(t, nil)
	queue := NewDialogueQueueSystem(r.am, r.clock)
	queue.Enqueue(&game.DialogueLine{ID: "a"}, &game.DialogueLine{ID: "b"})
	queue.Clear()
	queue.Update(0.125)
	if queue.Len() != 0 || r.dialogue.spoken != 0 {
		t.Error("Cleared queue should not speak")
	}
}
