package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/John-Robertt/clipgif/internal/domain"
)

func TestTerminal_AskSequential(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("\r\n my out.gif \n"), &out)

	first, err := p.Ask("select files")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if first != "" {
		t.Fatalf("第一行应为空，实际=%q", first)
	}

	name, err := p.Ask("name this gif:")
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	// 回答原样透传（包括首尾空格）。
	if name != " my out.gif " {
		t.Fatalf("回答应原样返回，实际=%q", name)
	}
	if out.String() != "select filesname this gif:" {
		t.Fatalf("提示输出不符合预期：%q", out.String())
	}
}

func TestTerminal_LastLineWithoutNewline(t *testing.T) {
	p := New(strings.NewReader("out.gif"), nil)
	got, err := p.Ask("name this gif:")
	if err != nil || got != "out.gif" {
		t.Fatalf("期望 out.gif，实际=%q err=%v", got, err)
	}
}

func TestTerminal_EOF(t *testing.T) {
	p := New(strings.NewReader(""), nil)
	_, err := p.Ask("name this gif:")
	if !domain.IsCode(err, domain.ErrCodeInputFailed) {
		t.Fatalf("期望 input_failed，实际：%v", err)
	}
}
