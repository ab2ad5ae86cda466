package domain

import (
	"encoding/json"
	"time"
)

const (
	StatusWritten = "written"
	StatusFailed  = "failed"
)

// RunReport 是一次运行的对外稳定输出（stdout JSON / TTY 摘要）。
//
// 约束：Sources 与帧一一对应（下标对齐），顺序即帧顺序。
type RunReport struct {
	Output    string   `json:"output"`
	Sources   []string `json:"sources"`
	Frames    int      `json:"frames"`
	DelayCS   int      `json:"delay_cs"`
	LoopCount int      `json:"loop_count"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status    string `json:"status"`
	Step      string `json:"step,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

// Fail 把 err 记录到报告中（只记录第一次失败）。
func (r *RunReport) Fail(err error) {
	if err == nil || r.ErrorCode != "" {
		return
	}
	r.Step = StepOf(err)
	r.ErrorCode = CodeOf(err)
	if r.ErrorCode == "" {
		r.ErrorCode = ErrCodeEncodeFailed
	}
	r.ErrorMsg = err.Error()
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) sources 为 nil 时输出 []（结构稳定）
// 3) status 由 error_code 推导
func (r *RunReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Sources == nil {
		r.Sources = []string{}
	}

	if r.ErrorCode != "" {
		r.Status = StatusFailed
		return
	}
	r.Status = StatusWritten
}

// OK 报告是否成功写出动画文件。
func (r RunReport) OK() bool { return r.Status == StatusWritten }

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r RunReport) MarshalJSON() ([]byte, error) {
	type Alias RunReport
	return json.Marshal(Alias(r))
}
