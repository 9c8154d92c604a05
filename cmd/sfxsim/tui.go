package main

import (
	"fmt"
	"time"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/gdamore/tcell/v2"
)

// 终端视图刷新间隔
const tuiFrame = 16 * time.Millisecond

var (
	styleDefault  = tcell.StyleDefault
	styleFree     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleBusy     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleAttached = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePaused   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Reverse(true)
)

// runTUI 实时显示音源池:每个发声器一个格子
// 按键: p 暂停/继续, z 生成僵尸, q/Esc 退出
func runTUI(sim *simulation) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 16)
	go func() {
		// Fini 之后 PollEvent 返回 nil
		for ev := screen.PollEvent(); ev != nil; ev = screen.PollEvent() {
			events <- ev
		}
	}()

	ticker := time.NewTicker(tuiFrame)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
					return nil
				case ev.Rune() == 'p':
					sim.togglePause()
				case ev.Rune() == 'z':
					sim.spawnZombie()
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if !sim.done() {
				sim.step()
			}
			drawPool(screen, sim)
		}
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func drawPool(screen tcell.Screen, sim *simulation) {
	screen.Clear()
	st := sim.stats()

	header := fmt.Sprintf("t=%.1fs  wave %d  zombies %d  pool %d  busy %d  free %d  attached %d",
		st.Time, st.Wave, st.Zombies, st.Size, st.Busy, st.Free, st.Attached)
	drawText(screen, 0, 0, styleDefault, header)
	if st.Paused {
		drawText(screen, len(header)+2, 0, stylePaused, " PAUSED ")
	}
	drawText(screen, 0, 1, styleDefault, "o free  * busy  @ attached     p pause  z zombie  q quit")

	width, _ := screen.Size()
	if width < 1 {
		width = 1
	}
	for i, id := range sim.am.Pool().Sources() {
		src, ok := ecs.GetComponent[*components.AudioSourceComponent](sim.em, id)
		if !ok {
			continue
		}
		r, style := 'o', styleFree
		if src.IsBusy() {
			r, style = '*', styleBusy
			if tr, ok := ecs.GetComponent[*components.TransformComponent](sim.em, id); ok && tr.Parent != sim.am.Holding() {
				r, style = '@', styleAttached
			}
		}
		screen.SetContent((i*2)%width, 3+(i*2)/width, r, nil, style)
	}
	screen.Show()
}
