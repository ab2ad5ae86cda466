package anim

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"io"

	"golang.org/x/image/draw"

	"github.com/John-Robertt/clipgif/internal/domain"
)

const (
	// FrameSeconds 是每帧固定的显示时长（秒）。
	FrameSeconds = 5
	// DefaultDelayCS 是写入 GIF 的帧延迟（GIF 单位为 1/100 秒）。
	DefaultDelayCS = FrameSeconds * 100

	// GIF 逻辑屏幕宽高是 16 位无符号整数。
	maxSide = 1<<16 - 1
)

// Options 控制动画编码。零值可用：每帧 5 秒、无限循环、不抖动。
type Options struct {
	// DelayCS 为每帧延迟（1/100 秒）；<=0 时使用 DefaultDelayCS。
	DelayCS int
	// LoopCount 与 image/gif 一致：0 无限循环，-1 只播一次，N>0 额外重复 N 次。
	LoopCount int
	// Dither 为 true 时用 Floyd–Steinberg 抖动量化到调色板。
	Dither bool
}

// Build 把有序图像序列组装为 GIF（一图一帧，顺序不变）。
//
// 约束：
// - 0 帧不是合法动画：返回 empty_input
// - 逻辑屏幕取所有帧的最大宽与最大高；每帧平移到 (0,0)，保留原尺寸
// - disposal 固定为“恢复背景”，小帧不会残留前一帧的像素
// - 已是调色板图像的帧沿用自身调色板；其余量化到 Plan 9 调色板
func Build(frames []image.Image, opts Options) (*gif.GIF, error) {
	if len(frames) == 0 {
		return nil, &domain.StepError{Step: domain.StepEncode, Code: domain.ErrCodeEmptyInput, Err: errors.New("没有任何帧")}
	}

	delay := opts.DelayCS
	if delay <= 0 {
		delay = DefaultDelayCS
	}

	g := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		Disposal:  make([]byte, 0, len(frames)),
		LoopCount: opts.LoopCount,
	}

	var w, h int
	for i, img := range frames {
		b := img.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 || b.Dx() > maxSide || b.Dy() > maxSide {
			return nil, &domain.StepError{
				Step: domain.StepEncode,
				Code: domain.ErrCodeEncodeFailed,
				Err:  fmt.Errorf("第 %d 帧尺寸无法写入 GIF：%dx%d", i+1, b.Dx(), b.Dy()),
			}
		}
		w = max(w, b.Dx())
		h = max(h, b.Dy())

		g.Image = append(g.Image, toPaletted(img, opts.Dither))
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	// ColorModel 留空：每帧写局部调色板。
	g.Config = image.Config{Width: w, Height: h}
	return g, nil
}

// Encode 组装并序列化 GIF 到 w。
func Encode(w io.Writer, frames []image.Image, opts Options) error {
	g, err := Build(frames, opts)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(w, g); err != nil {
		return &domain.StepError{Step: domain.StepEncode, Code: domain.ErrCodeEncodeFailed, Err: err}
	}
	return nil
}

func toPaletted(img image.Image, dither bool) *image.Paletted {
	b := img.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())

	if p, ok := img.(*image.Paletted); ok && len(p.Palette) > 0 && len(p.Palette) <= 256 {
		if p.Rect.Min == (image.Point{}) {
			return p
		}
		dst := image.NewPaletted(rect, p.Palette)
		draw.Draw(dst, rect, p, b.Min, draw.Src)
		return dst
	}

	dst := image.NewPaletted(rect, palette.Plan9)
	if dither {
		draw.FloydSteinberg.Draw(dst, rect, img, b.Min)
	} else {
		draw.Draw(dst, rect, img, b.Min, draw.Src)
	}
	return dst
}
