package fonts

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字重名称。
const (
	Regular = "regular"
	Medium  = "medium"
	Bold    = "bold"
)

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Medium:  gomedium.TTF,
	Bold:    gobold.TTF,
}

// Load 返回字体字节数据。name 可以是内置字重（"embed:bold" 或 "bold"），也可以是 TTF/OTF 文件路径。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(name, "embed:")
	if data, ok := builtin[key]; ok {
		return data, nil
	}
	if strings.HasPrefix(name, "embed:") {
		return nil, fmt.Errorf("找不到内置字体 %s", key)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", name, err)
	}
	return data, nil
}

// ForWeight 把 CSS 字重映射到最接近的内置字体。
func ForWeight(weight int) string {
	switch {
	case weight >= 700:
		return Bold
	case weight >= 500:
		return Medium
	default:
		return Regular
	}
}
