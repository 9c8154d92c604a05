package game

import (
	"log"
	"math/rand"
	"time"

	"github.com/decker502/zsurvive/internal/audio"
	"github.com/decker502/zsurvive/pkg/components"
	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/ecs"
	"github.com/decker502/zsurvive/pkg/types"
	"github.com/jakecoffman/cp"
)

// SceneAudio 一组场景音频(音乐 + 环境音),用于快照切换
type SceneAudio struct {
	Music    *audio.Clip
	Ambience *audio.Clip
}

// AudioManagerOptions 音频管理器依赖
// 只有 EntityManager 是必需的,其余为 nil 时使用默认实现
type AudioManagerOptions struct {
	EntityManager *ecs.EntityManager
	Backend       audio.Backend       // nil 时使用 headless 后端
	Clips         *ClipBank           // nil 时按后端采样率新建
	Settings      *SettingsManager    // nil 时不持久化音量
	Listener      DialogueListener    // 对白界面回调
	Config        *config.AudioConfig // nil 时使用默认配置
	Factory       SourceFactory       // nil 时使用内置的音源池工厂
	Rand          *rand.Rand          // 音调随机源
	Verbose       bool                // 输出静默忽略的诊断日志
}

// AudioManager 音频管理器
// 职责：
//   - 音效播放请求的唯一入口(音源池 + 专用通道)
//   - 为每次派发安排延迟清理任务(由 SourceCleanupSystem 执行)
//   - 音乐/环境音快照切换、对白播放与暂停、分组音量
//
// 设计原则：
//   - 播放请求是 fire-and-forget,任何配置缺失都降级为静默忽略,不返回错误
//   - 不使用全局单例,由 App 在启动时创建并注入到各系统
//   - 所有方法只在游戏循环 goroutine 上调用
type AudioManager struct {
	em       *ecs.EntityManager
	backend  audio.Backend
	clips    *ClipBank
	settings *SettingsManager
	listener DialogueListener
	mixer    *Mixer
	rng      *rand.Rand

	root    ecs.EntityID // 管理器自身节点
	holding ecs.EntityID // 音源池收纳节点
	pool    *SourcePool

	musicSources    [2]ecs.EntityID
	ambienceSources [2]ecs.EntityID
	dialogueSources [2]ecs.EntityID // 按 DialogueActor 索引
	footstepSource  ecs.EntityID
	weaponSource    ecs.EntityID

	currentSnapshot int
	currentDialogue ecs.EntityID
	listenerPaused  bool

	pitchMin          float64
	pitchMax          float64
	cleanupDelay      float64
	rearmWhilePlaying bool
	transition        float64
	minDistance       float64
	maxDistance       float64
	menuAudio         SceneAudio
	inGameAudio       SceneAudio
	lines             map[string]*DialogueLine

	Verbose bool
}

// NewAudioManager 创建音频管理器
//
// 创建管理器节点、收纳节点、音乐/环境音/对白/脚步/武器专用发声器,
// 并按配置预热音源池。
//
// 参数：
//   - opts: 依赖项
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(opts AudioManagerOptions) *AudioManager {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultAudioConfig()
	}
	backend := opts.Backend
	if backend == nil {
		backend = audio.NewHeadlessBackend(cfg.Mixer.SampleRate)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clips := opts.Clips
	if clips == nil {
		clips = NewClipBank(backend.SampleRate(), 0, rng)
	}
	var listener DialogueListener = nopDialogueListener{}
	if opts.Listener != nil {
		listener = opts.Listener
	}

	am := &AudioManager{
		em:       opts.EntityManager,
		backend:  backend,
		clips:    clips,
		settings: opts.Settings,
		listener: listener,
		mixer:    NewMixer(),
		rng:      rng,
		lines:    make(map[string]*DialogueLine),
		Verbose:  opts.Verbose,
	}

	am.root = am.em.CreateEntity()
	am.em.AddComponent(am.root, &components.TransformComponent{})
	am.holding = am.em.CreateEntity()
	am.em.AddComponent(am.holding, &components.TransformComponent{Parent: am.root})

	factory := opts.Factory
	if factory == nil {
		factory = am.newPooledSource
	}
	am.pool = NewSourcePool(am.em, am.holding, factory)

	am.initSources()
	am.ApplyConfig(cfg)
	am.pool.Warm(cfg.Pool.MinSources)
	am.applySettings()

	log.Printf("[AudioManager] Initialized (backend: %s, pool: %d)", backend.Name(), am.pool.Size())
	return am
}

// initSources 创建专用发声器
func (am *AudioManager) initSources() {
	for slot := 0; slot < 2; slot++ {
		am.musicSources[slot] = am.createSource(types.AudioMusic, true, true)
		am.em.AddComponent(am.musicSources[slot], &components.SnapshotSlotComponent{Slot: slot})
		am.ambienceSources[slot] = am.createSource(types.AudioAmbience, true, true)
		am.em.AddComponent(am.ambienceSources[slot], &components.SnapshotSlotComponent{Slot: slot})
	}
	am.dialogueSources[ActorRadio] = am.createSource(types.AudioDialogue, false, false)
	am.dialogueSources[ActorVoices] = am.createSource(types.AudioDialogue, false, false)
	am.footstepSource = am.createSource(types.AudioFootsteps, true, false)
	am.weaponSource = am.createSource(types.AudioWeapon, true, false)
	am.currentDialogue = am.dialogueSources[ActorRadio]
}

// createSource 创建挂在管理器节点下的专用发声器
func (am *AudioManager) createSource(group types.AudioType, active, loop bool) ecs.EntityID {
	id := am.em.CreateEntity()
	am.em.AddComponent(id, &components.TransformComponent{Parent: am.root})
	am.em.AddComponent(id, &components.AudioSourceComponent{
		Pitch:       1,
		Active:      active,
		PlayOnAwake: true,
		Loop:        loop,
		Group:       group,
		Voice:       am.backend.NewVoice(),
	})
	return id
}

// newPooledSource 内置的音源池工厂:创建挂在收纳节点下的空闲发声器
func (am *AudioManager) newPooledSource(holding ecs.EntityID) ecs.EntityID {
	id := am.em.CreateEntity()
	var pos cp.Vector
	if tr, ok := ecs.GetComponent[*components.TransformComponent](am.em, holding); ok {
		pos = tr.Position
	}
	am.em.AddComponent(id, &components.TransformComponent{Position: pos, Parent: holding})
	am.em.AddComponent(id, &components.AudioSourceComponent{
		Pitch:       1,
		PlayOnAwake: true,
		Group:       types.AudioSFX,
		Pooled:      true,
		Voice:       am.backend.NewVoice(),
	})
	return id
}

// ApplyConfig 应用(或热重载)配置
// 更新音调范围、清理延迟、空间距离、片段库、场景音频和对白;
// 音源池只会按新的 minSources 扩容,不会缩小。
func (am *AudioManager) ApplyConfig(cfg *config.AudioConfig) {
	am.pitchMin = cfg.Pitch.Min
	am.pitchMax = cfg.Pitch.Max
	am.cleanupDelay = cfg.Pool.CleanupDelay
	am.rearmWhilePlaying = cfg.Pool.RearmWhilePlaying
	am.transition = cfg.Mixer.SnapshotTransition
	am.minDistance = cfg.Spatial.MinDistance
	am.maxDistance = cfg.Spatial.MaxDistance

	if len(cfg.Clips) > 0 || len(cfg.Banks) > 0 {
		if err := am.clips.LoadConfig(cfg); err != nil {
			log.Printf("[AudioManager] Warning: failed to load clips: %v", err)
		}
	}

	am.menuAudio = SceneAudio{Music: am.clipOrNil(cfg.Scenes.Menu.Music), Ambience: am.clipOrNil(cfg.Scenes.Menu.Ambience)}
	am.inGameAudio = SceneAudio{Music: am.clipOrNil(cfg.Scenes.InGame.Music), Ambience: am.clipOrNil(cfg.Scenes.InGame.Ambience)}

	lines := make(map[string]*DialogueLine, len(cfg.Dialogue))
	for _, d := range cfg.Dialogue {
		actor, err := ParseDialogueActor(d.Actor)
		if err != nil {
			log.Printf("[AudioManager] Warning: dialogue %s: %v", d.ID, err)
			continue
		}
		lines[d.ID] = &DialogueLine{ID: d.ID, Actor: actor, Transcript: d.Transcript, Clip: am.clipOrNil(d.Clip)}
	}
	am.lines = lines

	if am.pool.Size() < cfg.Pool.MinSources {
		am.pool.Warm(cfg.Pool.MinSources)
	}
}

func (am *AudioManager) clipOrNil(id string) *audio.Clip {
	if id == "" {
		return nil
	}
	clip, err := am.clips.Clip(id)
	if err != nil {
		log.Printf("[AudioManager] Warning: %v", err)
		return nil
	}
	return clip
}

// applySettings 把持久化的音量同步到混音器
func (am *AudioManager) applySettings() {
	if am.settings == nil {
		return
	}
	for _, g := range mixerGroups {
		am.mixer.SetVolume(g, am.settings.Volume(g))
	}
}

// Init 在快照 0 上开始播放菜单音乐和环境音
func (am *AudioManager) Init() {
	am.currentSnapshot = 0
	am.mixer.TransitionTo(0, 0)
	am.currentDialogue = am.dialogueSources[ActorRadio]

	music := am.source(am.musicSources[0])
	ambience := am.source(am.ambienceSources[0])
	music.Clip = am.menuAudio.Music
	ambience.Clip = am.menuAudio.Ambience
	am.playVoice(music)
	am.playVoice(ambience)
}

// Update 推进混音器淡入淡出
// 参数: unscaledDelta - 真实时间增量(秒)
func (am *AudioManager) Update(unscaledDelta float64) {
	am.mixer.Update(unscaledDelta)
}

func (am *AudioManager) debugf(format string, args ...interface{}) {
	if am.Verbose {
		log.Printf("[AudioManager] "+format, args...)
	}
}

// source 获取发声器组件;专用发声器在管理器存在期间总是存在
func (am *AudioManager) source(id ecs.EntityID) *components.AudioSourceComponent {
	src, _ := ecs.GetComponent[*components.AudioSourceComponent](am.em, id)
	return src
}

// pitchFor 随机音调或 1.0
func (am *AudioManager) pitchFor(randomize bool) float64 {
	if !randomize {
		return 1
	}
	return am.pitchMin + am.rng.Float64()*(am.pitchMax-am.pitchMin)
}

// ========== 播放触发 ==========

// startSource 启动发声器
// 已激活时直接播放;未激活时激活它,激活本身在 PlayOnAwake 时触发播放
func (am *AudioManager) startSource(src *components.AudioSourceComponent) {
	if src.Active {
		am.playVoice(src)
		return
	}
	src.Active = true
	if src.PlayOnAwake {
		am.playVoice(src)
	}
}

// playVoice 从头播放发声器当前片段;监听器暂停时以暂停状态开始
func (am *AudioManager) playVoice(src *components.AudioSourceComponent) {
	if src == nil || src.Voice == nil {
		return
	}
	if src.Clip == nil {
		src.Voice.Stop()
		return
	}
	src.Voice.SetLoop(src.Loop)
	src.Voice.Play(src.Clip, src.Pitch)
	if am.listenerPaused && !src.IgnoreListenerPause {
		src.Voice.Pause()
	}
}

// DeactivateSource 停用发声器并停止播放
func DeactivateSource(src *components.AudioSourceComponent) {
	src.Active = false
	if src.Voice != nil {
		src.Voice.Stop()
	}
}

// SetParent 把实体挂到新的父节点下,保持世界坐标不变
// parent 为 0 表示挂到世界根节点
func SetParent(em *ecs.EntityManager, id, parent ecs.EntityID) {
	tr, ok := ecs.GetComponent[*components.TransformComponent](em, id)
	if !ok {
		return
	}
	tr.Parent = parent
	tr.LocalOffset = tr.Position
	if parent == 0 {
		return
	}
	if ptr, ok := ecs.GetComponent[*components.TransformComponent](em, parent); ok {
		tr.LocalOffset = tr.Position.Sub(ptr.Position)
	}
}

// moveTo 设置世界坐标并同步相对父节点的偏移
func (am *AudioManager) moveTo(id ecs.EntityID, pos cp.Vector) {
	tr, ok := ecs.GetComponent[*components.TransformComponent](am.em, id)
	if !ok {
		return
	}
	tr.Position = pos
	tr.LocalOffset = pos
	if ptr, ok := ecs.GetComponent[*components.TransformComponent](am.em, tr.Parent); ok && tr.Parent != 0 {
		tr.LocalOffset = pos.Sub(ptr.Position)
	}
}

// scheduleCleanup 为发声器安排清理任务(覆盖该发声器上的旧任务)
func (am *AudioManager) scheduleCleanup(id ecs.EntityID, src *components.AudioSourceComponent, dialogue, resetParent bool) {
	state := components.CleanupFixedDelay
	if dialogue {
		state = components.CleanupWaitingForDialogueEnd
	}
	am.em.AddComponent(id, &components.SourceCleanupComponent{
		State:       state,
		Remaining:   am.cleanupDelay,
		Dialogue:    dialogue,
		ResetParent: resetParent,
		Generation:  src.Generation,
	})
}

// ========== 播放请求 ==========

// PlayEffect 通用播放入口
//
// 参数：
//   - clip: 音频片段,nil 时静默忽略
//   - sourceToUse: 目标类别;SFX/Enemy/None 走音源池,Footsteps/Weapon/Dialogue 走专用通道,
//     Master/Music/Ambience 静默忽略
//   - wantToPitch: 是否随机音调
//   - anchor: 世界锚点实体(0 表示无)
//   - attachToParent: 是否挂到锚点下跟随移动
func (am *AudioManager) PlayEffect(clip *audio.Clip, sourceToUse types.AudioType, wantToPitch bool, anchor ecs.EntityID, attachToParent bool) {
	if clip == nil {
		am.debugf("PlayEffect(%v): nil clip ignored", sourceToUse)
		return
	}
	switch {
	case sourceToUse.IsPooled():
		am.playPooled(clip, sourceToUse, wantToPitch, anchor, attachToParent)
	case sourceToUse.IsDedicated():
		am.PlayDedicatedEffect(sourceToUse, clip, wantToPitch)
	default:
		am.debugf("PlayEffect: category %v has no effect channel", sourceToUse)
	}
}

// PlayPooledEffect 从音源池播放一个音效
//
// 参数：
//   - clip: 音频片段,nil 时静默忽略(不占用发声器)
//   - randomizePitch: 是否随机音调
//   - anchor: 世界锚点实体(0 表示非定位音效)
//   - attach: 是否挂到锚点下跟随移动
func (am *AudioManager) PlayPooledEffect(clip *audio.Clip, randomizePitch bool, anchor ecs.EntityID, attach bool) {
	if clip == nil {
		am.debugf("PlayPooledEffect: nil clip ignored")
		return
	}
	am.playPooled(clip, types.AudioSFX, randomizePitch, anchor, attach)
}

func (am *AudioManager) playPooled(clip *audio.Clip, group types.AudioType, randomize bool, anchor ecs.EntityID, attach bool) {
	var anchorTr *components.TransformComponent
	if anchor != 0 {
		tr, ok := ecs.GetComponent[*components.TransformComponent](am.em, anchor)
		if !ok {
			am.debugf("PlayPooledEffect: anchor %d missing, %s ignored", anchor, clip.ID)
			return
		}
		anchorTr = tr
	}

	pitch := am.pitchFor(randomize)
	id := am.pool.AcquireFree()
	src, ok := ecs.GetComponent[*components.AudioSourceComponent](am.em, id)
	if !ok {
		am.debugf("PlayPooledEffect: source %d has no emitter, %s ignored", id, clip.ID)
		return
	}

	if anchorTr != nil {
		if attach {
			SetParent(am.em, id, anchor)
		}
		src.SpatialBlend = 1
		am.moveTo(id, anchorTr.Position)
	}

	src.Group = group
	src.Pitch = pitch
	src.Clip = clip
	src.Generation++
	am.startSource(src)
	am.scheduleCleanup(id, src, false, attach)
	am.debugf("Playing %s on source %d (pitch %.2f, gen %d)", clip.ID, id, pitch, src.Generation)
}

// PlayDedicatedEffect 在专用通道上播放,不经过音源池
// 脚步/武器以 one-shot 叠加播放、不安排清理;对白在当前对白发声器上播放并安排对白清理
func (am *AudioManager) PlayDedicatedEffect(channel types.AudioType, clip *audio.Clip, randomizePitch bool) {
	if clip == nil {
		am.debugf("PlayDedicatedEffect(%v): nil clip ignored", channel)
		return
	}
	switch channel {
	case types.AudioFootsteps:
		am.playOneShot(am.footstepSource, clip, am.pitchFor(randomizePitch))
	case types.AudioWeapon:
		am.playOneShot(am.weaponSource, clip, am.pitchFor(randomizePitch))
	case types.AudioDialogue:
		am.playDialogueClip(am.currentDialogue, clip)
	default:
		am.debugf("PlayDedicatedEffect: %v is not a dedicated channel", channel)
	}
}

func (am *AudioManager) playOneShot(id ecs.EntityID, clip *audio.Clip, pitch float64) {
	src := am.source(id)
	if src == nil || src.Voice == nil {
		am.debugf("dedicated source %d missing", id)
		return
	}
	src.Pitch = pitch
	src.Voice.PlayOneShot(clip, pitch)
	if am.listenerPaused && !src.IgnoreListenerPause {
		src.Voice.Pause()
	}
}

func (am *AudioManager) playDialogueClip(id ecs.EntityID, clip *audio.Clip) {
	src := am.source(id)
	if src == nil {
		am.debugf("dialogue source %d missing", id)
		return
	}
	src.Clip = clip
	src.Pitch = 1
	src.Generation++
	am.startSource(src)
	am.scheduleCleanup(id, src, true, false)
}

// PlayEffectByID 按片段ID播放
func (am *AudioManager) PlayEffectByID(clipID string, sourceToUse types.AudioType, wantToPitch bool, anchor ecs.EntityID, attachToParent bool) {
	clip, err := am.clips.Clip(clipID)
	if err != nil {
		am.debugf("PlayEffectByID: %v", err)
		return
	}
	am.PlayEffect(clip, sourceToUse, wantToPitch, anchor, attachToParent)
}

// PlayBankEffect 从音效库随机选一个片段播放
func (am *AudioManager) PlayBankEffect(bank string, sourceToUse types.AudioType, wantToPitch bool, anchor ecs.EntityID, attachToParent bool) {
	clip := am.clips.Random(bank)
	if clip == nil {
		am.debugf("PlayBankEffect: bank %q empty or missing", bank)
		return
	}
	am.PlayEffect(clip, sourceToUse, wantToPitch, anchor, attachToParent)
}

// ZombieAttack 僵尸攻击声(定位,不跟随)
func (am *AudioManager) ZombieAttack(zombie ecs.EntityID) {
	am.PlayBankEffect(BankZombieAttack, types.AudioEnemy, false, zombie, false)
}

// ZombieSpawn 僵尸出生声(定位,不跟随)
func (am *AudioManager) ZombieSpawn(zombie ecs.EntityID) {
	am.PlayBankEffect(BankZombieSpawn, types.AudioEnemy, false, zombie, false)
}

// ZombieDeath 僵尸死亡声(定位,不跟随)
func (am *AudioManager) ZombieDeath(zombie ecs.EntityID) {
	am.PlayBankEffect(BankZombieDeath, types.AudioEnemy, false, zombie, false)
}

// ZombieNoise 僵尸低吼(定位,不跟随)
func (am *AudioManager) ZombieNoise(zombie ecs.EntityID) {
	am.PlayBankEffect(BankZombieNoise, types.AudioEnemy, false, zombie, false)
}

// HealthPickup 血包拾取声(定位,跟随血包)
func (am *AudioManager) HealthPickup(pickup ecs.EntityID) {
	am.PlayBankEffect(BankHealthPickup, types.AudioSFX, false, pickup, true)
}

// PlayerHit 玩家受击声(非定位)
func (am *AudioManager) PlayerHit() {
	am.PlayBankEffect(BankPlayerHit, types.AudioSFX, false, 0, false)
}

// PlayFootstep 玩家脚步声
func (am *AudioManager) PlayFootstep(running bool) {
	bank := BankFootsteps
	if running {
		bank = BankRunning
	}
	am.PlayDedicatedEffect(types.AudioFootsteps, am.clips.Random(bank), false)
}

// PlayWeapon 玩家武器声
func (am *AudioManager) PlayWeapon() {
	am.PlayDedicatedEffect(types.AudioWeapon, am.clips.Random(BankWeapon), false)
}

// ReturnSourceToHoldingArea 立即把发声器挂回收纳节点并安排清理
// 用于持有跟随发声器的对象即将被销毁时;世界坐标保持不变
func (am *AudioManager) ReturnSourceToHoldingArea(ids ...ecs.EntityID) {
	for _, id := range ids {
		src, ok := ecs.GetComponent[*components.AudioSourceComponent](am.em, id)
		if !ok {
			am.debugf("ReturnSourceToHoldingArea: %d is not a source", id)
			continue
		}
		SetParent(am.em, id, am.holding)
		am.scheduleCleanup(id, src, false, false)
	}
}

// CleanupAllSFXSources 为所有占用中的池发声器安排清理(并挂回收纳节点)
func (am *AudioManager) CleanupAllSFXSources() {
	for _, id := range am.pool.Sources() {
		src, ok := ecs.GetComponent[*components.AudioSourceComponent](am.em, id)
		if !ok || !src.Active {
			continue
		}
		am.scheduleCleanup(id, src, false, true)
	}
}

// ========== 音乐 / 环境音 ==========

// SwapSnapshots 切换到另一个快照槽
// 新槽载入 set 的音乐和环境音并在 delay 秒内淡入,旧槽立即停止并清空
func (am *AudioManager) SwapSnapshots(set SceneAudio, delay float64) {
	next := 1 - am.currentSnapshot
	prev := am.currentSnapshot
	am.currentSnapshot = next

	music := am.source(am.musicSources[next])
	ambience := am.source(am.ambienceSources[next])
	music.Clip = set.Music
	ambience.Clip = set.Ambience

	am.mixer.TransitionTo(next, delay)
	am.playVoice(music)
	am.playVoice(ambience)

	for _, id := range []ecs.EntityID{am.musicSources[prev], am.ambienceSources[prev]} {
		old := am.source(id)
		old.Voice.Stop()
		old.Clip = nil
	}
	log.Printf("[AudioManager] Swapped to snapshot %d (fade %.2fs)", next, delay)
}

// StartGame 切换到游戏内音频
func (am *AudioManager) StartGame() {
	am.SwapSnapshots(am.inGameAudio, am.transition)
}

// BackToMain 切换回菜单音频
func (am *AudioManager) BackToMain() {
	am.SwapSnapshots(am.menuAudio, am.transition)
}

// ========== 对白 ==========

// SpeakVoiceLine 说一句台词
// 先通知界面显示字幕;如果当前对白发声器未激活或正在放别的片段,
// 切换到该角色的发声器播放,并安排对白清理(结束时通知界面)
func (am *AudioManager) SpeakVoiceLine(line *DialogueLine) {
	if line == nil {
		return
	}
	am.listener.SpeakVoiceLine(line)

	if line.Clip == nil {
		am.debugf("SpeakVoiceLine(%s): no clip", line.ID)
		am.listener.EndDialogue()
		return
	}

	current := am.source(am.currentDialogue)
	if current != nil && current.Active && current.Clip == line.Clip {
		return
	}
	am.currentDialogue = am.dialogueSources[line.Actor]
	am.playDialogueClip(am.currentDialogue, line.Clip)
}

// Line 按ID获取配置中的台词
func (am *AudioManager) Line(id string) (*DialogueLine, bool) {
	line, ok := am.lines[id]
	return line, ok
}

// IsDialoguePlaying 当前对白发声器是否在播放
func (am *AudioManager) IsDialoguePlaying() bool {
	src := am.source(am.currentDialogue)
	if src == nil || !src.Active {
		return false
	}
	return src.Voice.IsPlaying()
}

// PauseDialogue 暂停菜单开关
// 暂停时音乐/环境音忽略监听器暂停继续播放,对白显式暂停,其余发声器随监听器暂停
func (am *AudioManager) PauseDialogue(state bool) {
	for _, id := range append(am.musicSources[:], am.ambienceSources[:]...) {
		am.source(id).IgnoreListenerPause = state
	}

	if dialogue := am.source(am.currentDialogue); dialogue != nil {
		if state {
			dialogue.Voice.Pause()
		} else {
			dialogue.Voice.Resume()
		}
	}

	am.SetListenerPause(state)
}

// NotifyDialogueEnd 对白发声器被清理时由 SourceCleanupSystem 调用
func (am *AudioManager) NotifyDialogueEnd() {
	am.listener.EndDialogue()
}

// SetListenerPause 监听器暂停
// 暂停除 IgnoreListenerPause 以外的所有发声器;恢复时全部继续
func (am *AudioManager) SetListenerPause(paused bool) {
	am.listenerPaused = paused
	for _, id := range ecs.GetEntitiesWith1[*components.AudioListenerComponent](am.em) {
		if l, ok := ecs.GetComponent[*components.AudioListenerComponent](am.em, id); ok {
			l.Paused = paused
		}
	}
	for _, id := range ecs.GetEntitiesWith1[*components.AudioSourceComponent](am.em) {
		src := am.source(id)
		if src.Voice == nil {
			continue
		}
		if paused && !src.IgnoreListenerPause {
			src.Voice.Pause()
		} else if !paused {
			src.Voice.Resume()
		}
	}
}

// ListenerPaused 监听器是否暂停
func (am *AudioManager) ListenerPaused() bool {
	return am.listenerPaused
}

// ========== 音量 ==========

// SetVolume 设置混音分组音量
//
// 参数：
//   - group: Master/Music/Ambience/Dialogue/SFX,其他类别静默忽略
//   - value: 线性音量,限制在 0~1
//   - updatePref: 是否写入偏好设置并保存
func (am *AudioManager) SetVolume(group types.AudioType, value float64, updatePref bool) {
	if !am.mixer.SetVolume(group, value) {
		am.debugf("SetVolume: %v is not a mixer group", group)
		return
	}
	if updatePref && am.settings != nil {
		am.settings.SetVolume(group, value)
		if err := am.settings.Save(); err != nil {
			log.Printf("[AudioManager] Warning: failed to save volume: %v", err)
		}
	}
}

// Volume 混音分组音量
func (am *AudioManager) Volume(group types.AudioType) float64 {
	return am.mixer.Volume(group)
}

// ========== 重置 ==========

// Reset 停止对白;resetToMain 时切回菜单音频;解除监听器暂停
func (am *AudioManager) Reset(resetToMain bool) {
	if dialogue := am.source(am.currentDialogue); dialogue != nil {
		dialogue.Voice.Stop()
		dialogue.Clip = nil
	}
	if resetToMain {
		am.SwapSnapshots(am.menuAudio, am.transition)
	}
	am.SetListenerPause(false)
}

// ========== 访问器 ==========

// Pool 音源池
func (am *AudioManager) Pool() *SourcePool { return am.pool }

// Mixer 混音器
func (am *AudioManager) Mixer() *Mixer { return am.mixer }

// Clips 片段库
func (am *AudioManager) Clips() *ClipBank { return am.clips }

// Backend 音频后端
func (am *AudioManager) Backend() audio.Backend { return am.backend }

// Root 管理器节点
func (am *AudioManager) Root() ecs.EntityID { return am.root }

// Holding 音源池收纳节点
func (am *AudioManager) Holding() ecs.EntityID { return am.holding }

// MusicSource 快照槽的音乐发声器
func (am *AudioManager) MusicSource(slot int) ecs.EntityID { return am.musicSources[slot&1] }

// AmbienceSource 快照槽的环境音发声器
func (am *AudioManager) AmbienceSource(slot int) ecs.EntityID { return am.ambienceSources[slot&1] }

// DialogueSource 角色的对白发声器
func (am *AudioManager) DialogueSource(actor DialogueActor) ecs.EntityID {
	return am.dialogueSources[actor&1]
}

// CurrentDialogueSource 当前对白发声器
func (am *AudioManager) CurrentDialogueSource() ecs.EntityID { return am.currentDialogue }

// FootstepSource 脚步专用发声器
func (am *AudioManager) FootstepSource() ecs.EntityID { return am.footstepSource }

// WeaponSource 武器专用发声器
func (am *AudioManager) WeaponSource() ecs.EntityID { return am.weaponSource }

// CurrentSnapshot 当前快照槽
func (am *AudioManager) CurrentSnapshot() int { return am.currentSnapshot }

// CleanupDelay 清理固定延迟(秒)
func (am *AudioManager) CleanupDelay() float64 { return am.cleanupDelay }

// RearmWhilePlaying 倒计时结束仍在播放时是否重新计时
func (am *AudioManager) RearmWhilePlaying() bool { return am.rearmWhilePlaying }

// SpatialRange 空间衰减距离
func (am *AudioManager) SpatialRange() (minDistance, maxDistance float64) {
	return am.minDistance, am.maxDistance
}

// SettingsDefaults 从配置的 mixer.defaults 生成默认偏好
func SettingsDefaults(cfg *config.AudioConfig) *AudioSettings {
	s := DefaultSettings()
	for name, volume := range cfg.Mixer.Defaults {
		group, err := config.ParseMixerGroup(name)
		if err != nil {
			continue
		}
		*s.volumeField(group) = clampVolume(volume)
	}
	return s
}

// Close 关闭所有发声器和后端
func (am *AudioManager) Close() error {
	for _, id := range ecs.GetEntitiesWith1[*components.AudioSourceComponent](am.em) {
		if src := am.source(id); src.Voice != nil {
			_ = src.Voice.Close()
		}
	}
	return am.backend.Close()
}
