package game

import (
	"fmt"
	"strings"

	"github.com/decker502/zsurvive/internal/audio"
)

// DialogueActor 对白角色,每个角色有自己的对白发声器
type DialogueActor int

const (
	// ActorRadio 无线电
	ActorRadio DialogueActor = iota
	// ActorVoices 幻听
	ActorVoices
)

// String 返回角色名
func (a DialogueActor) String() string {
	if a == ActorVoices {
		return "Voices"
	}
	return "Radio"
}

// ParseDialogueActor 解析配置中的角色名(radio | voices)
func ParseDialogueActor(name string) (DialogueActor, error) {
	switch strings.ToLower(name) {
	case "radio":
		return ActorRadio, nil
	case "voices":
		return ActorVoices, nil
	}
	return ActorRadio, fmt.Errorf("unknown dialogue actor %q", name)
}

// DialogueLine 一句台词
type DialogueLine struct {
	ID         string
	Actor      DialogueActor
	Transcript string
	Clip       *audio.Clip
}

// DialogueListener 对白界面回调
// SpeakVoiceLine 在开始说一句台词时调用(显示字幕);
// EndDialogue 在对白发声器被清理时调用(隐藏字幕),每次清理恰好一次。
type DialogueListener interface {
	SpeakVoiceLine(line *DialogueLine)
	EndDialogue()
}

// nopDialogueListener 未注入界面时使用
type nopDialogueListener struct{}

func (nopDialogueListener) SpeakVoiceLine(*DialogueLine) {}
func (nopDialogueListener) EndDialogue()                 {}
