package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/John-Robertt/clipgif/internal/domain"
)

// Reader 打印一个提示并阻塞读取一行回答。
type Reader interface {
	Ask(question string) (string, error)
}

// Terminal 在 w 上打印提示，从 r 读取一行。
// 回答原样返回（只去掉行尾的 "\n" / "\r\n"，不做其他校验）。
type Terminal struct {
	r *bufio.Reader
	w io.Writer
}

func New(r io.Reader, w io.Writer) *Terminal {
	return &Terminal{r: bufio.NewReader(r), w: w}
}

func (t *Terminal) Ask(question string) (string, error) {
	if t.w != nil {
		fmt.Fprint(t.w, question)
	}
	line, err := t.r.ReadString('\n')
	if err != nil {
		// 最后一行没有换行符也算有效输入；只有“什么都没读到”才视为失败。
		if !errors.Is(err, io.EOF) || line == "" {
			return "", &domain.StepError{Code: domain.ErrCodeInputFailed, Err: err}
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
