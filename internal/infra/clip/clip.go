package clip

import (
	"fmt"

	"github.com/zyedidia/clipper"

	"github.com/John-Robertt/clipgif/internal/domain"
)

// 剪贴板寄存器名（与 clipper 的约定一致）。
const (
	RegClipboard = "clipboard"
	RegPrimary   = "primary"
)

// Source 提供一块剪贴板文本（只读，无副作用）。
type Source interface {
	ReadText() (string, error)
}

// System 是基于平台剪贴板工具（pbpaste / wl-paste / xclip / xsel / powershell 等）的 Source。
type System struct {
	cb  clipper.Clipboard
	reg string
}

// NewSystem 探测当前平台可用的剪贴板机制。
// 找不到任何机制时返回 environment_unavailable。
func NewSystem(reg string) (*System, error) {
	switch reg {
	case "":
		reg = RegClipboard
	case RegClipboard, RegPrimary:
	default:
		return nil, fmt.Errorf("未知剪贴板寄存器：%q", reg)
	}

	cb, err := clipper.GetClipboard(clipper.Clipboards...)
	if err != nil {
		return nil, &domain.StepError{Step: domain.StepClipboard, Code: domain.ErrCodeEnvUnavailable, Err: err}
	}
	return &System{cb: cb, reg: reg}, nil
}

func (s *System) ReadText() (string, error) {
	b, err := s.cb.ReadAll(s.reg)
	if err != nil {
		return "", &domain.StepError{Step: domain.StepClipboard, Code: domain.ErrCodeEnvUnavailable, Err: err}
	}
	return string(b), nil
}

// Static 是固定内容的 Source（测试与非交互场景使用）。
type Static string

func (s Static) ReadText() (string, error) { return string(s), nil }
