package fsx

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// 通过可替换的函数指针，让测试能稳定模拟 EXDEV 等错误。
var renameFunc = os.Rename

// PathTypeConflictError 表示目标路径类型冲突（例如期望文件但实际是目录）。
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("目标路径类型冲突：%q（期望 %s，实际 %s）", e.Path, e.Want, e.Got)
}

func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// CrossDeviceError 表示跨盘（EXDEV）导致的 rename 失败。
// 临时文件与目标同目录，正常情况下不会出现；一旦出现直接失败，不做 copy+delete。
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("跨盘移动失败（EXDEV）：%q -> %q：%v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice 判断 err 是否为跨盘（EXDEV）错误。
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename 封装 os.Rename，并把 EXDEV 显式标记为 CrossDeviceError。
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// WriteAtomic 把 fn 写出的内容原子地落到 path（同目录临时文件 + rename）。
//
// 语义：
// - 目标已存在则覆盖；目标是目录则返回 PathTypeConflictError
// - 目标是符号链接：写入链接指向的文件，链接本身保留
// - 父目录必须已存在（不隐式创建）；以路径分隔符结尾的 path 视为目录，直接失败
// - fn 或任何一步失败：删除临时文件，目标保持原样（不会出现半截文件）
func WriteAtomic(path string, fn func(w io.Writer) error) error {
	if path == "" {
		return errors.New("输出路径为空")
	}
	if last := path[len(path)-1]; last == '/' || os.IsPathSeparator(last) {
		return &PathTypeConflictError{Path: path, Want: "file", Got: "dir"}
	}

	dst, err := resolveTarget(filepath.Clean(path))
	if err != nil {
		return err
	}

	dir, name := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}

	// 创建同目录临时文件（前缀带 '.'，失败时即使残留也不显眼）。
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := Rename(tmpName, dst); err != nil {
		return err
	}

	// 目录 fsync：best-effort（不同平台/文件系统的语义差异很大）。
	_ = syncDirBestEffort(dir)
	return nil
}

// resolveTarget 跟随符号链接得到真正要被替换的文件路径，并拒绝目录。
// 悬空链接按链接内容解析（与直接 open 写入的行为一致：创建被指向的文件）。
func resolveTarget(dst string) (string, error) {
	for hops := 0; ; hops++ {
		fi, err := os.Lstat(dst)
		if os.IsNotExist(err) {
			return dst, nil
		}
		if err != nil {
			return "", err
		}
		if fi.IsDir() {
			return "", &PathTypeConflictError{Path: dst, Want: "file", Got: "dir"}
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			return dst, nil
		}
		if hops >= 40 {
			return "", fmt.Errorf("符号链接层数过多：%q", dst)
		}
		target, err := os.Readlink(dst)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(dst), target)
		}
		dst = filepath.Clean(target)
	}
}

func syncDirBestEffort(dir string) error {
	// Windows 上目录 Sync 的语义与支持情况不稳定，这里直接跳过。
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
