package systems

import (
	"github.com/decker502/zsurvive/pkg/game"
)

// DialogueSpeaker 播放台词的一方(*game.AudioManager)
type DialogueSpeaker interface {
	IsDialoguePlaying() bool
	SpeakVoiceLine(line *game.DialogueLine)
}

// DialogueQueueSystem 台词队列
// 先进先出;每帧在没有对白播放且游戏未暂停时取出一句播放
type DialogueQueueSystem struct {
	speaker DialogueSpeaker
	pause   game.PauseSignal
	queue   []*game.DialogueLine
}

// NewDialogueQueueSystem 创建台词队列
func NewDialogueQueueSystem(speaker DialogueSpeaker, pause game.PauseSignal) *DialogueQueueSystem {
	return &DialogueQueueSystem{
		speaker: speaker,
		pause:   pause,
	}
}

// Enqueue 追加台词(nil 忽略)
func (s *DialogueQueueSystem) Enqueue(lines ...*game.DialogueLine) {
	for _, line := range lines {
		if line != nil {
			s.queue = append(s.queue, line)
		}
	}
}

// Len 队列中等待的台词数
func (s *DialogueQueueSystem) Len() int {
	return len(s.queue)
}

// Clear 清空队列
func (s *DialogueQueueSystem) Clear() {
	s.queue = nil
}

// Update 按需播放下一句
func (s *DialogueQueueSystem) Update(deltaTime float64) {
	if len(s.queue) == 0 {
		return
	}
	if s.pause != nil && s.pause.TimeScale() == 0 {
		return
	}
	if s.speaker.IsDialoguePlaying() {
		return
	}

	line := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.speaker.SpeakVoiceLine(line)
}
