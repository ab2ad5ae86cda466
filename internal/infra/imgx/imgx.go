package imgx

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // 注册 GIF 解码器（已有动图取首帧）
	_ "image/jpeg" // 注册 JPEG 解码器
	_ "image/png"  // 注册 PNG 解码器
	"os"

	_ "golang.org/x/image/bmp"  // 截图工具常见输出
	_ "golang.org/x/image/tiff" // 扫描件
	_ "golang.org/x/image/webp" // 浏览器另存为

	"github.com/John-Robertt/clipgif/internal/domain"
)

// Load 打开 path 并按内容自动识别格式解码为光栅图像。
//
// 约束：
// - 文件句柄在解码结束后立即关闭（无论成功与否）
// - 路径不存在/不可读/是目录：file_not_found
// - 内容无法按任何已注册格式解码：unsupported_format
func Load(path string) (image.Image, error) {
	if path == "" {
		return nil, loadErr(domain.ErrCodeFileNotFound, path, errors.New("路径为空"))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, loadErr(domain.ErrCodeFileNotFound, path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, loadErr(domain.ErrCodeFileNotFound, path, err)
	}
	if fi.IsDir() {
		return nil, loadErr(domain.ErrCodeFileNotFound, path, errors.New("是目录而不是文件"))
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, loadErr(domain.ErrCodeUnsupportedFormat, path, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, loadErr(domain.ErrCodeUnsupportedFormat, path, fmt.Errorf("图片尺寸无效：%dx%d", b.Dx(), b.Dy()))
	}
	return img, nil
}

// LoadAll 按输入顺序逐个 Load；任意一个失败立即返回（不跳过、不重试）。
// 返回的切片与 paths 下标对齐。
func LoadAll(paths []string) ([]image.Image, error) {
	imgs := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := Load(p)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

func loadErr(code, path string, err error) error {
	return &domain.StepError{Step: domain.StepLoad, Code: code, Input: path, Err: err}
}
