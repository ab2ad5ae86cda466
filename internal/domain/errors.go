package domain

import (
	"errors"
	"fmt"
)

// 流水线步骤名（用于诊断输出：哪一步、哪个输入失败）。
const (
	StepConfig    = "config"
	StepPause     = "pause"
	StepClipboard = "clipboard"
	StepLoad      = "load"
	StepName      = "name"
	StepEncode    = "encode"
)

const (
	ErrCodeEnvUnavailable    = "environment_unavailable"
	ErrCodeFileNotFound      = "file_not_found"
	ErrCodeUnsupportedFormat = "unsupported_format"
	ErrCodeEmptyInput        = "empty_input"
	ErrCodeEncodeFailed      = "encode_failed"
	ErrCodeInputFailed       = "input_failed"
	ErrCodeConfigInvalid     = "config_invalid"
)

// StepError 是流水线的结构化错误：任何一步失败都整体终止（fail-fast）。
//
// Input 指向出错的输入（图片路径或输出路径）；与该步无关时为空。
type StepError struct {
	Step  string
	Code  string
	Input string
	Err   error
}

func (e *StepError) Error() string {
	switch {
	case e.Input != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %q: %v", e.Step, e.Code, e.Input, e.Err)
	case e.Input != "":
		return fmt.Sprintf("%s %s: %q", e.Step, e.Code, e.Input)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Step, e.Code, e.Err)
	default:
		return e.Step + " " + e.Code
	}
}

func (e *StepError) Unwrap() error { return e.Err }

// CodeOf 从 error 链中提取 error_code；若不是 *StepError 则返回空串。
func CodeOf(err error) string {
	var e *StepError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// StepOf 从 error 链中提取失败的步骤名。
func StepOf(err error) string {
	var e *StepError
	if errors.As(err, &e) {
		return e.Step
	}
	return ""
}

func IsCode(err error, code string) bool {
	return code != "" && CodeOf(err) == code
}
