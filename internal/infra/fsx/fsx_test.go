package fsx

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeString(s string) func(w io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func assertNoTemp(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "."+name+".tmp-") {
			t.Fatalf("临时文件未清理：%q", e.Name())
		}
	}
}

func TestWriteAtomic_SuccessAndNoTempLeft(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.gif")

	if err := WriteAtomic(dst, writeString("hello")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}

	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("读取文件失败：%v", err)
	}
	if string(b) != "hello" {
		t.Fatalf("内容不一致：%q", string(b))
	}
	assertNoTemp(t, dir, "out.gif")
}

func TestWriteAtomic_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.gif")
	if err := os.WriteFile(dst, []byte("old-and-longer"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	if err := WriteAtomic(dst, writeString("new")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "new" {
		t.Fatalf("应覆盖旧文件，实际：%q", string(b))
	}
}

func TestWriteAtomic_WriterFails_TargetUntouched(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.gif")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(dst, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望透传 fn 的错误，实际：%v", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "old" {
		t.Fatalf("失败时目标不应被修改：%q", string(b))
	}
	assertNoTemp(t, dir, "out.gif")
}

func TestWriteAtomic_RenameFail_CleanupTemp(t *testing.T) {
	dir := t.TempDir()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return os.ErrPermission
	}
	defer func() { renameFunc = old }()

	err := WriteAtomic(filepath.Join(dir, "a.gif"), writeString("hello"))
	if err == nil {
		t.Fatalf("期望失败，但得到 nil")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("失败后目录应为空，实际 %d 项", len(entries))
	}
}

func TestWriteAtomic_TargetConflictDir(t *testing.T) {
	dir := t.TempDir()

	// 目标路径是目录：应返回 PathTypeConflictError。
	if err := os.Mkdir(filepath.Join(dir, "a.gif"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	err := WriteAtomic(filepath.Join(dir, "a.gif"), writeString("hello"))
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际：%T %v", err, err)
	}
}

func TestWriteAtomic_MissingParentAndEmptyPath(t *testing.T) {
	dir := t.TempDir()

	if err := WriteAtomic(filepath.Join(dir, "no", "such", "a.gif"), writeString("x")); err == nil {
		t.Fatalf("父目录不存在时应失败")
	}
	if _, err := os.Stat(filepath.Join(dir, "no")); !os.IsNotExist(err) {
		t.Fatalf("不应隐式创建父目录")
	}
	if err := WriteAtomic("", writeString("x")); err == nil {
		t.Fatalf("空路径应失败")
	}
}

func TestWriteAtomic_TrailingSeparator(t *testing.T) {
	dir := t.TempDir()

	err := WriteAtomic(filepath.Join(dir, "newdir")+string(filepath.Separator), writeString("x"))
	if !IsPathTypeConflict(err) {
		t.Fatalf("以分隔符结尾的路径应返回 PathTypeConflictError，实际：%v", err)
	}
	if _, err := os.Lstat(filepath.Join(dir, "newdir")); !os.IsNotExist(err) {
		t.Fatalf("不应创建任何文件")
	}
}

func TestWriteAtomic_BareNameInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)

	if err := WriteAtomic("out.gif", writeString("x")); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "out.gif"))
	if err != nil || string(b) != "x" {
		t.Fatalf("应写到当前目录：%q %v", string(b), err)
	}
	assertNoTemp(t, dir, "out.gif")
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}
