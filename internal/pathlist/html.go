package pathlist

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromHTML 从 HTML 剪贴板片段中按文档顺序提取本地文件路径。
//
// 只看 img[src] 与 a[href]：
// - file:// URL 转为本地路径（已做百分号解码）
// - 无 scheme 的值原样视为文件系统路径（绝对或相对，不解码）
// - http/https/data 等其他 scheme 忽略
//
// 返回 ok=false 表示片段无法解析或其中没有任何本地路径（调用方应退化为按行处理）。
func FromHTML(text string) ([]string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, false
	}

	var paths []string
	doc.Find("img[src], a[href]").Each(func(_ int, s *goquery.Selection) {
		attr := "href"
		if goquery.NodeName(s) == "img" {
			attr = "src"
		}
		v, _ := s.Attr(attr)
		if p, ok := localPath(v); ok {
			paths = append(paths, p)
		}
	})
	if len(paths) == 0 {
		return nil, false
	}
	return paths, true
}

func localPath(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "?") {
		return "", false
	}
	// Windows 盘符路径（C:\a.png）会被 url.Parse 误认成 scheme "c"。
	if isDrivePath(raw) {
		return raw, true
	}

	u, err := url.Parse(raw)
	if err != nil {
		// 含非法 '%' 转义的普通文件名也是合法路径。
		if !strings.Contains(raw, ":") {
			return raw, true
		}
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		// 无 scheme：原样当作文件系统路径，不做百分号解码（50%25.png 是真实文件名）。
		return raw, true
	case "file":
		p := u.Path
		if u.Host != "" && u.Host != "localhost" {
			// UNC：file://server/share/a.png -> //server/share/a.png
			p = "//" + u.Host + p
		}
		// file:///C:/a.png -> C:/a.png
		if len(p) >= 3 && p[0] == '/' && isDrivePath(p[1:]) {
			p = p[1:]
		}
		if p == "" {
			return "", false
		}
		return p, true
	default:
		return "", false
	}
}

func isDrivePath(s string) bool {
	if len(s) < 3 {
		return false
	}
	c := s[0]
	isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	return isLetter && s[1] == ':' && (s[2] == '\\' || s[2] == '/')
}
