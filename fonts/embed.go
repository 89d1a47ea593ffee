package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmmath"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// 内置字体名称，可写为 "embed:LatinModern-Regular" 或直接 "LatinModern-Regular"。
const (
	Regular    = "LatinModern-Regular"
	Bold       = "LatinModern-Bold"
	Italic     = "LatinModern-Italic"
	BoldItalic = "LatinModern-BoldItalic"

	// Math 覆盖希腊字母与数学符号（θ、π、≤ 等），Roman 字体缺少这些字形，用作回退字体。
	Math = "LatinModern-Math"
)

var builtin = map[string][]byte{
	Regular:    lmroman10regular.TTF,
	Bold:       lmroman10bold.TTF,
	Italic:     lmroman10italic.TTF,
	BoldItalic: lmroman10bolditalic.TTF,
	Math:       lmmath.TTF,
}

// Load 返回内置字体的字节数据。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(name, "embed:")
	data, ok := builtin[clean]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("读取内置字体 %s 失败：不存在", clean)
	}
	return data, nil
}
