package run

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/John-Robertt/clipgif/internal/anim"
	"github.com/John-Robertt/clipgif/internal/config"
	"github.com/John-Robertt/clipgif/internal/domain"
	"github.com/John-Robertt/clipgif/internal/infra/clip"
	"github.com/John-Robertt/clipgif/internal/infra/fsx"
	"github.com/John-Robertt/clipgif/internal/infra/imgx"
	"github.com/John-Robertt/clipgif/internal/infra/prompt"
	"github.com/John-Robertt/clipgif/internal/pathlist"
)

const (
	PromptSelect = "select files"
	PromptName   = "name this gif:"
)

// Deps 是流水线的两个外部协作者：剪贴板文本来源与逐行输入。
// 由调用方注入，核心流程不直接触碰系统剪贴板或终端。
type Deps struct {
	Clipboard clip.Source
	Prompt    prompt.Reader
}

// Execute 顺序执行一次完整流程，并返回对外稳定的 RunReport：
//
//	暂停等待 -> 读剪贴板 -> 路径规范化 -> 逐个解码 -> 询问文件名 -> 编码写出
//
// 任意一步失败立即终止（fail-fast），失败信息记录在报告中。
// 输出通过临时文件 + rename 写出：失败时目标路径不会出现半截文件。
func Execute(deps Deps, eff config.EffectiveConfig) domain.RunReport {
	rr := domain.RunReport{
		StartedAt: time.Now().UTC(),
		DelayCS:   anim.DefaultDelayCS,
		LoopCount: eff.LoopCount,
	}
	if err := execute(deps, eff, &rr); err != nil {
		rr.Fail(err)
	}
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}

func execute(deps Deps, eff config.EffectiveConfig, rr *domain.RunReport) error {
	if deps.Clipboard == nil || deps.Prompt == nil {
		return &domain.StepError{Step: domain.StepClipboard, Code: domain.ErrCodeEnvUnavailable, Err: errors.New("缺少剪贴板或输入协作者")}
	}

	// 给用户时间把文件路径复制到剪贴板；回答内容不使用。
	if _, err := deps.Prompt.Ask(PromptSelect); err != nil {
		return withStep(err, domain.StepPause, domain.ErrCodeInputFailed)
	}

	text, err := deps.Clipboard.ReadText()
	if err != nil {
		return withStep(err, domain.StepClipboard, domain.ErrCodeEnvUnavailable)
	}

	paths := pathlist.Parse(text)
	rr.Sources = paths

	imgs, err := imgx.LoadAll(paths)
	if err != nil {
		return err
	}
	// 0 帧不是合法动画：在询问文件名之前就失败，且不触碰文件系统。
	if len(imgs) == 0 {
		return &domain.StepError{Step: domain.StepEncode, Code: domain.ErrCodeEmptyInput, Err: errors.New("剪贴板中没有任何路径")}
	}

	name, err := deps.Prompt.Ask(PromptName)
	if err != nil {
		return withStep(err, domain.StepName, domain.ErrCodeInputFailed)
	}
	rr.Output = name

	opts := anim.Options{
		DelayCS:   anim.DefaultDelayCS,
		LoopCount: eff.LoopCount,
		Dither:    eff.Dither,
	}
	err = fsx.WriteAtomic(name, func(w io.Writer) error {
		return anim.Encode(w, imgs, opts)
	})
	if err != nil {
		if domain.CodeOf(err) != "" {
			return withInput(err, name)
		}
		return &domain.StepError{Step: domain.StepEncode, Code: domain.ErrCodeEncodeFailed, Input: name, Err: err}
	}

	rr.Frames = len(imgs)
	return nil
}

// withStep 给来自协作者的错误补上步骤名；非结构化错误按 code 包装。
func withStep(err error, step, code string) error {
	var se *domain.StepError
	if errors.As(err, &se) {
		if se.Step == "" {
			se.Step = step
		}
		if se.Code == "" {
			se.Code = code
		}
		return err
	}
	return &domain.StepError{Step: step, Code: code, Err: err}
}

func withInput(err error, input string) error {
	var se *domain.StepError
	if errors.As(err, &se) && se.Input == "" {
		se.Input = input
	}
	return err
}

// Diagnostic 把失败报告格式化为单行诊断：<step> <code>: <message>。
func Diagnostic(rr domain.RunReport) string {
	if rr.OK() {
		return ""
	}
	if rr.ErrorMsg != "" {
		return rr.ErrorMsg
	}
	return fmt.Sprintf("%s %s", rr.Step, rr.ErrorCode)
}
