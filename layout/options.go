package layout

// BuildOptions 配置分页排版所需的依赖与版面参数。
// 零值字段使用默认值：A4 纸张、50pt 边距。
type BuildOptions struct {
	Measurer Measurer
	PageSize PageSize
	Margin   float64
	Creator  string
}

// Measurer 根据字形与字号测量文字宽度（pt）。实现必须是无副作用的纯查询，
// 排版过程中不得做 I/O。
type Measurer interface {
	TextWidth(text string, variant FontVariant, size float64) float64
}

const (
	defaultMargin  = 50.0
	defaultCreator = "paperdoc"
)

func (o BuildOptions) withDefaults() BuildOptions {
	if o.PageSize.Width <= 0 || o.PageSize.Height <= 0 {
		o.PageSize = A4
	}
	if o.Margin <= 0 {
		o.Margin = defaultMargin
	}
	if o.Creator == "" {
		o.Creator = defaultCreator
	}
	return o
}
