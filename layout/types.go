package layout

// 该文件定义分页排版的结果类型，供排版计算、渲染后端与调试 JSON 共用。
// 坐标单位统一为 pt，原点位于页面左下角，Y 向上；DrawCommand.Y 为文字基线。

// FontVariant 是四种字形组合之一：常规 / 粗体 / 斜体 / 粗斜体。
type FontVariant int

const (
	Regular FontVariant = iota
	Bold
	Italic
	BoldItalic
)

// variantTable 以 [bold][italic] 为键。
var variantTable = [2][2]FontVariant{
	{Regular, Italic},
	{Bold, BoldItalic},
}

var variantNames = [...]string{"regular", "bold", "italic", "bold-italic"}

// VariantOf selects the font variant for a pair of style flags.
func VariantOf(bold, italic bool) FontVariant {
	return variantTable[b2i(bold)][b2i(italic)]
}

// String returns the variant name.
func (v FontVariant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "regular"
	}
	return variantNames[v]
}

// MarshalText 使调试 JSON 输出变体名称而不是数字。
func (v FontVariant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Result 保存排版后的页面与文档元信息。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸与按绘制顺序排列的文字命令。页面只追加、不删除。
type Page struct {
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Commands []DrawCommand `json:"commands"`
}

// DrawCommand 表示一段已定位的文字。
type DrawCommand struct {
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Text    string      `json:"text"`
	Variant FontVariant `json:"variant"`
	Size    float64     `json:"size"`
}

// Fragment 是一行中样式一致的一段文字，Width 为测量后的宽度（pt）。
type Fragment struct {
	Text   string  `json:"text"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Width  float64 `json:"width"`
}

// Line 是折行后的一行，保留原始空白。
type Line []Fragment

// Width 返回整行宽度。
func (l Line) Width() float64 {
	w := 0.0
	for _, f := range l {
		w += f.Width
	}
	return w
}

// Text 返回整行文字。
func (l Line) Text() string {
	s := ""
	for _, f := range l {
		s += f.Text
	}
	return s
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
