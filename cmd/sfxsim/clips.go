package main

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"text/tabwriter"

	"github.com/decker502/zsurvive/pkg/config"
	"github.com/decker502/zsurvive/pkg/game"
)

// listClips 解码所有片段并按表格输出
// 返回: 第一个解码失败的错误(其余片段仍会列出)
func listClips(out io.Writer, cfg *config.AudioConfig) error {
	bank := game.NewClipBank(cfg.Mixer.SampleRate, 0, rand.New(rand.NewSource(1)))
	if err := bank.LoadConfig(cfg); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tSECONDS")
	var firstErr error
	for _, id := range bank.IDs() {
		source := "synth"
		if c, ok := cfg.ClipByID(id); ok && c.Path != "" {
			source = c.Path
		}
		clip, err := bank.Clip(id)
		if err != nil {
			fmt.Fprintf(tw, "%s\t%s\tERROR: %v\n", id, source, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3f\n", id, source, clip.Seconds())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "BANK\tCLIPS\t")
	for _, name := range bank.Banks() {
		fmt.Fprintf(tw, "%s\t%s\t\n", name, strings.Join(bank.Bank(name), ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return firstErr
}
