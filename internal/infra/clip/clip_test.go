package clip

import (
	"errors"
	"testing"

	"github.com/John-Robertt/clipgif/internal/domain"
)

type failingClipboard struct{}

func (failingClipboard) Init() error { return nil }

func (failingClipboard) ReadAll(reg string) ([]byte, error) {
	return nil, errors.New("no display")
}

func (failingClipboard) WriteAll(reg string, p []byte) error { return nil }

type memClipboard map[string]string

func (memClipboard) Init() error { return nil }

func (m memClipboard) ReadAll(reg string) ([]byte, error) { return []byte(m[reg]), nil }

func (m memClipboard) WriteAll(reg string, p []byte) error {
	m[reg] = string(p)
	return nil
}

func TestSystem_ReadText_UsesRegister(t *testing.T) {
	m := memClipboard{RegClipboard: "a.png\n", RegPrimary: "b.png\n"}
	s := &System{cb: m, reg: RegPrimary}

	got, err := s.ReadText()
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if got != "b.png\n" {
		t.Fatalf("应读取 primary 寄存器，实际=%q", got)
	}
}

func TestSystem_ReadText_FailureIsEnvironmentUnavailable(t *testing.T) {
	s := &System{cb: failingClipboard{}, reg: RegClipboard}

	_, err := s.ReadText()
	if !domain.IsCode(err, domain.ErrCodeEnvUnavailable) {
		t.Fatalf("期望 environment_unavailable，实际：%v", err)
	}
	if domain.StepOf(err) != domain.StepClipboard {
		t.Fatalf("期望 step=clipboard，实际=%q", domain.StepOf(err))
	}
}

func TestNewSystem_UnknownRegister(t *testing.T) {
	if _, err := NewSystem("secondary"); err == nil {
		t.Fatalf("未知寄存器应返回错误")
	}
}

func TestStatic(t *testing.T) {
	got, err := Static("x").ReadText()
	if err != nil || got != "x" {
		t.Fatalf("Static 读取不符合预期：%q %v", got, err)
	}
}
