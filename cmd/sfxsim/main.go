// sfxsim 无窗口的音效运行时模拟器
//
// 在 headless 后端上运行生存模式的波次,观察音源池的增长与回收。
//
// 用法:
//
//	sfxsim run --duration 120 --report 5
//	sfxsim run --tui
//	sfxsim clips --config data/config/audio.yaml
//
// 所有参数也可以用 ZSURV_ 前缀的环境变量设置(如 ZSURV_DURATION=60),
// 或通过 --params 指定 YAML 文件。
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/embedded"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = "data/config/audio.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd 创建命令树,每次调用返回独立的 viper 实例
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("ZSURV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "sfxsim",
		Short:         "Headless simulator for the zsurvive audio runtime",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if path := v.GetString("params"); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read params %s: %w", path, err)
				}
			}
			if !v.GetBool("verbose") {
				log.SetOutput(io.Discard)
			}
			dir := v.GetString("root")
			embedded.Init(os.DirFS(dir), os.DirFS(dir))
			return nil
		},
	}
	root.PersistentFlags().String("config", defaultConfig, "Audio config file")
	root.PersistentFlags().String("root", ".", "Directory containing assets/ and data/")
	root.PersistentFlags().String("params", "", "YAML file with simulation parameters")
	root.PersistentFlags().Bool("verbose", false, "Enable verbose logging")

	root.AddCommand(newRunCmd(v), newClipsCmd(v))
	return root
}

func loadConfig(v *viper.Viper) (*config.AudioConfig, error) {
	return config.LoadAudioConfig(v.GetString("config"))
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run zombie waves on the headless backend and report pool usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			params := simParams{
				Duration:   v.GetFloat64("duration"),
				Step:       v.GetFloat64("step"),
				KillRate:   v.GetFloat64("kill-rate"),
				PauseEvery: v.GetFloat64("pause-every"),
				PickupRate: v.GetFloat64("pickup-rate"),
				Rearm:      v.GetBool("rearm"),
				Seed:       v.GetInt64("seed"),
			}
			sim, err := newSimulation(cfg, params, v.GetBool("verbose"))
			if err != nil {
				return err
			}

			if v.GetBool("tui") {
				return runTUI(sim)
			}

			out := cmd.OutOrStdout()
			report := sim.run(out, v.GetFloat64("report"))
			drained := sim.drain(v.GetFloat64("drain"))
			final := sim.stats()

			fmt.Fprintf(out, "frames=%d plays=%d kills=%d maxWave=%d maxBusy=%d poolSize=%d\n",
				report.Frames, report.Plays, report.Kills, report.MaxWave, report.MaxBusy, report.FinalSize)
			fmt.Fprintf(out, "after drain: busy=%d free=%d (drained=%v)\n", final.Busy, final.Free, drained)
			if !drained && !params.Rearm {
				fmt.Fprintln(out, "note: sources still busy; enable --rearm to keep cleaning sources that outlive the delay")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64("duration", 60, "Simulated seconds")
	f.Float64("step", 1.0/60.0, "Frame length in seconds")
	f.Float64("kill-rate", 0.15, "Per-zombie kill probability per second")
	f.Float64("pause-every", 0, "Toggle the pause menu every N seconds (0 = never)")
	f.Float64("pickup-rate", 0.05, "Health pickup spawn probability per second")
	f.Float64("report", 5, "Print pool stats every N seconds (0 = only the summary)")
	f.Float64("drain", 10, "Seconds to keep cleaning after the run")
	f.Bool("rearm", false, "Restart the cleanup countdown for sources still playing")
	f.Int64("seed", 1, "Random seed")
	f.Bool("tui", false, "Show a live terminal view instead of text reports")
	return cmd
}

func newClipsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "clips",
		Short: "Decode every configured clip and list banks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return listClips(cmd.OutOrStdout(), cfg)
		},
	}
}
