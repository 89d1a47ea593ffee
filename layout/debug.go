package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// debugDump 在排版结果前加上页数与绘制命令总数，便于快速核对分页。
type debugDump struct {
	PageCount    int `json:"page_count"`
	CommandCount int `json:"command_count"`
	*Result
}

// EncodeDebugJSON 把排版结果写成缩进 JSON。字体变体输出名称，文本不做 HTML 转义，
// 因此 "θ ≤ π" 与 "a < b" 保持原样。
func EncodeDebugJSON(w io.Writer, res *Result) error {
	if res == nil {
		return fmt.Errorf("排版结果为空")
	}
	dump := debugDump{PageCount: len(res.Pages), Result: res}
	for _, page := range res.Pages {
		dump.CommandCount += len(page.Commands)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(dump)
}

// WriteDebugJSON 将排版结果输出到 path，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
