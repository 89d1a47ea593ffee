package renderer

import "github.com/ByLCY/paperdoc/layout"

// Renderer 将排版结果序列化为分页文档（PDF 字节切片）。
// 序列化是一次性阻塞调用，不做流式或部分输出。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Backend 同时负责测量与绘制，保证折行所用的字体度量与最终输出一致。
type Backend interface {
	layout.Measurer
	Renderer
}
