package systems

import (
	"testing"

	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/jakecoffman/cp"
	"pgregory.net/rapid"
)

// ============================================================================
// Property-Based Tests for Source Pool Invariants
// ============================================================================

// runRandomTraffic 随机派发音效、推进时间、切换暂停,每步之后检查池状态
func runRandomTraffic(t *rapid.T, r *audioRig) {
	anchor := r.anchor(cp.Vector{X: 50, Y: 50})
	steps := rapid.IntRange(1, 60).Draw(t, "steps")
	lastSize := r.am.Pool().Size()

	for i := 0; i < steps; i++ {
		switch rapid.IntRange(0, 4).Draw(t, "op") {
		case 0, 1:
			// 时长取 1/8 秒的整数倍,避免浮点残差
			eighths := rapid.IntRange(1, 12).Draw(t, "eighths")
			attach := rapid.Bool().Draw(t, "attach")
			r.am.PlayPooledEffect(clipOf("fx", float64(eighths)/8), rapid.Bool().Draw(t, "pitch"), anchor, attach)
		case 2:
			r.tick(0.125)
		case 3:
			if r.clock.TimeScale() == 0 {
				r.clock.SetTimeScale(1)
			} else {
				r.clock.SetTimeScale(0)
			}
		case 4:
			sources := r.am.Pool().Sources()
			idx := rapid.IntRange(0, len(sources)-1).Draw(t, "returnIdx")
			r.am.ReturnSourceToHoldingArea(sources[idx])
		}

		size := r.am.Pool().Size()
		if size < lastSize {
			t.Fatalf("Pool shrank from %d to %d", lastSize, size)
		}
		lastSize = size
		checkPoolStates(t, r)
	}
}

func checkPoolStates(t *rapid.T, r *audioRig) {
	for _, id := range r.am.Pool().Sources() {
		src := r.source(id)
		if src.Active != (src.Clip != nil) {
			t.Fatalf("Source %d is neither free nor busy: active=%v clip=%v", id, src.Active, src.Clip != nil)
		}
		if task, ok := ecs.GetComponent[*components.SourceCleanupComponent](r.em, id); ok && task.Generation > src.Generation {
			t.Fatalf("Source %d task generation %d ahead of source %d", id, task.Generation, src.Generation)
		}
	}
}

func TestProperty_PooledSourcesStayFreeOrBusy(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := newAudioRig(t, nil)
		runRandomTraffic(t, r)
	})
}

func TestProperty_RearmFreesEverySourceAfterPlayback(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := config.DefaultAudioConfig()
		cfg.Pool.RearmWhilePlaying = true
		r := newAudioRig(t, cfg)
		runRandomTraffic(t, r)

		// 最长片段 1.5s(含随机降调最多再长数倍),等待足够久
		r.clock.SetTimeScale(1)
		for i := 0; i < 8*60; i++ {
			r.tick(0.125)
		}
		for _, id := range r.am.Pool().Sources() {
			if !r.source(id).IsFree() {
				t.Fatalf("Source %d still busy after playback and delay", id)
			}
		}
	})
}
