package game

// 波次默认参数
const (
	DefaultStartingWaveAmount = 2
	DefaultWaveDelay          = 5.0 // 每波开始前的等待(秒,缩放时间)
)

// GameState 波次与得分状态
// 由 App(或模拟器)持有,不是全局单例
type GameState struct {
	Wave      int // 当前波次(从 1 开始,0 表示尚未开始)
	HighScore int // 最高波次

	StartingWaveAmount int     // 第一波基础僵尸数
	WaveDelay          float64 // 每波开始前的等待

	spawnTimer   float64
	spawnPending bool
	alive        int // 当前波次尚存的僵尸数
}

// NewGameState 创建波次状态
// startingAmount <= 0 或 waveDelay < 0 时使用默认值
func NewGameState(startingAmount int, waveDelay float64) *GameState {
	if startingAmount <= 0 {
		startingAmount = DefaultStartingWaveAmount
	}
	if waveDelay < 0 {
		waveDelay = DefaultWaveDelay
	}
	return &GameState{
		StartingWaveAmount: startingAmount,
		WaveDelay:          waveDelay,
	}
}

// WaveSize 第 wave 波的僵尸数量
// wave*(1+(wave+starting)/100) 取整后加上基础数量
func WaveSize(wave, starting int) int {
	return int(float64(wave)*(1+float64(wave+starting)/100)) + starting
}

// StartWave 开始下一波,WaveDelay 之后由 Update 返回出生数量
//
// 参数：
//   - introPlayed: 开场对白是否已经播过
//
// 返回：
//   - bool: 是否需要播放开场对白(第一波且从未播过)
func (gs *GameState) StartWave(introPlayed bool) bool {
	gs.Wave++
	gs.spawnTimer = gs.WaveDelay
	gs.spawnPending = true
	return gs.Wave == 1 && !introPlayed
}

// RestartWave 从第一波重新开始
func (gs *GameState) RestartWave(introPlayed bool) bool {
	gs.Wave = 0
	gs.alive = 0
	return gs.StartWave(introPlayed)
}

// Update 推进波次计时
// 参数: deltaTime - 缩放时间增量
// 返回: 本帧应出生的僵尸数量(大多数帧为 0)
func (gs *GameState) Update(deltaTime float64) int {
	if !gs.spawnPending {
		return 0
	}
	gs.spawnTimer -= deltaTime
	if gs.spawnTimer > 0 {
		return 0
	}
	gs.spawnPending = false
	n := WaveSize(gs.Wave, gs.StartingWaveAmount)
	gs.alive += n
	return n
}

// IsSpawnPending 是否在等待本波出生
func (gs *GameState) IsSpawnPending() bool {
	return gs.spawnPending
}

// Alive 尚存僵尸数
func (gs *GameState) Alive() int {
	return gs.alive
}

// ZombieKilled 记录一只僵尸死亡
// 返回: 本波是否已清空(调用方随后开始下一波)
func (gs *GameState) ZombieKilled() bool {
	if gs.alive <= 0 {
		return false
	}
	gs.alive--
	return gs.alive == 0 && !gs.spawnPending
}

// RecordHighScore 当前波次超过最高记录时更新
// 返回: 是否刷新了记录
func (gs *GameState) RecordHighScore() bool {
	if gs.Wave <= gs.HighScore {
		return false
	}
	gs.HighScore = gs.Wave
	return true
}
