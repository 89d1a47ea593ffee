package fonts

import "testing"

func TestLoadBuiltinFonts(t *testing.T) {
	for _, name := range []string{Regular, Bold, Italic, "embed:" + BoldItalic, Math} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) 出错: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("Load(%q) 返回空数据", name)
		}
	}
	if _, err := Load("Comic-Sans"); err == nil {
		t.Fatalf("未知字体应当报错")
	}
}
