package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/clipgif/internal/domain"
)

const (
	// FileName 是可选配置文件名（位于当前工作目录）。
	FileName = "clipgif.json"

	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = domain.ErrCodeConfigInvalid
)

const (
	// DefaultLoopCount 为 0：无限循环。
	DefaultLoopCount = 0
	// DefaultDither 决定量化到调色板时是否抖动。
	DefaultDither = true
	// DefaultRegister 是默认读取的剪贴板寄存器。
	DefaultRegister = "clipboard"
)

// CLIArgs 保留“是否显式指定”的信息，保证 --dither=false 能覆盖 config.dither=true。
type CLIArgs struct {
	Loop    int
	LoopSet bool

	Dither    bool
	DitherSet bool

	Register    string
	RegisterSet bool
}

// FileConfig 对应 clipgif.json 的解析结构。
type FileConfig struct {
	Loop     *int   `json:"loop"`
	Dither   *bool  `json:"dither"`
	Register string `json:"register"`
}

// EffectiveConfig 是合并后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	LoopCount int
	Dither    bool
	Register  string

	// ConfigPath 为实际读取到的配置文件；不存在时为空。
	ConfigPath string
}

// Default 返回不读任何文件时的配置。
func Default() EffectiveConfig {
	return EffectiveConfig{
		LoopCount: DefaultLoopCount,
		Dither:    DefaultDither,
		Register:  DefaultRegister,
	}
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	default:
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取 <cwd>/clipgif.json（可选），并与 CLI 参数合并。
//
// 覆盖优先级（固定）：CLI > config > 默认。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cfgPath := filepath.Join(cwd, FileName)
	fc, exists, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	if !exists {
		cfgPath = ""
	}
	return merge(cli, fc, cfgPath)
}

func merge(cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	eff := Default()
	eff.ConfigPath = cfgPath

	if cli.LoopSet {
		eff.LoopCount = cli.Loop
	} else if fc.Loop != nil {
		eff.LoopCount = *fc.Loop
	}
	if eff.LoopCount < -1 || eff.LoopCount > 65535 {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("loop 只能在 [-1, 65535] 内，实际是 %d", eff.LoopCount)}
	}

	if cli.DitherSet {
		eff.Dither = cli.Dither
	} else if fc.Dither != nil {
		eff.Dither = *fc.Dither
	}

	if cli.RegisterSet {
		eff.Register = cli.Register
	} else if r := strings.TrimSpace(fc.Register); r != "" {
		eff.Register = r
	}
	if err := ValidateRegister(eff.Register); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return eff, nil
}

func ValidateRegister(r string) error {
	switch r {
	case "clipboard", "primary":
		return nil
	case "":
		return fmt.Errorf("register 不能为空")
	default:
		return fmt.Errorf("register 只能是 clipboard 或 primary，实际是 %q", r)
	}
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
