package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/John-Robertt/clipgif/internal/app/run"
	"github.com/John-Robertt/clipgif/internal/config"
	"github.com/John-Robertt/clipgif/internal/domain"
	"github.com/John-Robertt/clipgif/internal/infra/clip"
	"github.com/John-Robertt/clipgif/internal/infra/prompt"
)

func main() {
	if code := runCmd(os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}

func runCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printUsage(os.Stdout)
			return 0
		}
	}

	cli, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage(os.Stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, cli)
	if err != nil {
		emitReport(os.Stdout, os.Stderr, failedReport(configStepError(err)))
		return 1
	}

	src, err := clip.NewSystem(eff.Register)
	if err != nil {
		emitReport(os.Stdout, os.Stderr, failedReport(err))
		return 1
	}

	// 提示写到 stderr：stdout 只留给结果。
	rr := run.Execute(run.Deps{
		Clipboard: src,
		Prompt:    prompt.New(os.Stdin, os.Stderr),
	}, eff)

	emitReport(os.Stdout, os.Stderr, rr)
	if rr.OK() {
		return 0
	}
	return 1
}

func parseArgs(args []string) (config.CLIArgs, error) {
	cli := config.CLIArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--loop":
			if i+1 >= len(args) {
				return config.CLIArgs{}, fmt.Errorf("--loop 需要一个值")
			}
			i++
			n, err := parseLoop(args[i])
			if err != nil {
				return config.CLIArgs{}, err
			}
			cli.Loop, cli.LoopSet = n, true
		case strings.HasPrefix(a, "--loop="):
			n, err := parseLoop(strings.TrimPrefix(a, "--loop="))
			if err != nil {
				return config.CLIArgs{}, err
			}
			cli.Loop, cli.LoopSet = n, true
		case a == "--dither":
			cli.Dither, cli.DitherSet = true, true
		case strings.HasPrefix(a, "--dither="):
			v := strings.TrimPrefix(a, "--dither=")
			switch v {
			case "true":
				cli.Dither = true
			case "false":
				cli.Dither = false
			default:
				return config.CLIArgs{}, fmt.Errorf("--dither 只能是 true 或 false，实际是 %q", v)
			}
			cli.DitherSet = true
		case a == "--register":
			if i+1 >= len(args) {
				return config.CLIArgs{}, fmt.Errorf("--register 需要一个值")
			}
			i++
			cli.Register, cli.RegisterSet = args[i], true
		case strings.HasPrefix(a, "--register="):
			cli.Register, cli.RegisterSet = strings.TrimPrefix(a, "--register="), true
		case strings.HasPrefix(a, "-"):
			return config.CLIArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			return config.CLIArgs{}, fmt.Errorf("不接受位置参数：%q（文件路径从剪贴板读取）", a)
		}
	}

	if cli.RegisterSet {
		if err := config.ValidateRegister(cli.Register); err != nil {
			return config.CLIArgs{}, fmt.Errorf("--register：%w", err)
		}
	}
	return cli, nil
}

func parseLoop(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("--loop 必须是整数，实际是 %q", v)
	}
	if n < -1 || n > 65535 {
		return 0, fmt.Errorf("--loop 只能在 [-1, 65535] 内，实际是 %d", n)
	}
	return n, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  clipgif [--loop N] [--dither[=true|false]] [--register clipboard|primary]

流程：
  1. 提示 "select files" 后回车：从剪贴板读取图片路径（每行一个，可带一层双引号）
  2. 按顺序解码全部图片（任意一张失败即终止）
  3. 提示 "name this gif:"：输入输出文件名（存在则覆盖）
  4. 写出循环 GIF，每帧 5 秒

参数：
  --loop      循环次数：0 无限循环（默认），-1 只播一次
  --dither    量化到调色板时使用抖动（默认开启）
  --register  剪贴板寄存器：clipboard（默认）或 primary（X11）
  -h, --help  显示帮助

配置文件（可选）：./clipgif.json，CLI 参数优先。
`)
}

func failedReport(err error) domain.RunReport {
	now := time.Now().UTC()
	rr := domain.RunReport{
		StartedAt:  now,
		FinishedAt: now,
	}
	rr.Fail(err)
	rr.Finalize()
	return rr
}

func configStepError(err error) error {
	se := &domain.StepError{Step: domain.StepConfig, Code: domain.ErrCodeConfigInvalid, Err: err}
	var ce *config.Error
	if errors.As(err, &ce) {
		se.Code, se.Input, se.Err = ce.Code, ce.Path, ce.Err
	}
	return se
}

// emitReport 按 stdout 是否为 TTY 决定输出形态：
// - TTY：成功时一行摘要；失败时一行诊断写到 stderr
// - 非 TTY：stdout 必须且仅输出一个 RunReport JSON（诊断/摘要走 stderr）
func emitReport(stdout, stderr io.Writer, rr domain.RunReport) {
	if f, ok := stdout.(*os.File); ok && isTTY(f) {
		if rr.OK() {
			fmt.Fprintf(stdout, "完成：%s（%d 帧，每帧 %ds）\n", rr.Output, rr.Frames, rr.DelayCS/100)
			return
		}
		fmt.Fprintln(stderr, run.Diagnostic(rr))
		return
	}

	enc := json.NewEncoder(stdout)
	_ = enc.Encode(rr)
	if rr.OK() {
		fmt.Fprintf(stderr, "完成：%s（%d 帧）\n", rr.Output, rr.Frames)
		return
	}
	fmt.Fprintln(stderr, run.Diagnostic(rr))
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
