// Package flow 把 markdown.Document 写成可编辑的流式文档（OOXML .docx）。
// 段落、标题与列表项按块顺序依次输出，不做分页与测量，由文字处理软件自行排版。
package flow

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ByLCY/paperdoc/markdown"
)

const (
	defaultFontFamily = "Calibri"
	// defaultFontSize 以半磅为单位，24 即 12pt。
	defaultFontSize = 24
	defaultCreator  = "paperdoc"

	listIndentLeft    = 720
	listIndentHanging = 360
	paragraphAfter    = 120
)

// Options 控制流式文档的字体与元数据。零值字段使用默认值。
type Options struct {
	FontFamily string
	// FontSize 单位为半磅。
	FontSize int
	Creator  string
	// Now 用于 core.xml 的创建时间，为空时取当前时间。
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.FontFamily == "" {
		o.FontFamily = defaultFontFamily
	}
	if o.FontSize <= 0 {
		o.FontSize = defaultFontSize
	}
	if o.Creator == "" {
		o.Creator = defaultCreator
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// headingSpacing 按标题级别给出段前/段后间距（twips），下标为 level-1。
var headingSpacing = [3]spacingXML{
	{Before: 240, After: 120},
	{Before: 240, After: 120},
	{Before: 200, After: 100},
}

// headingSizes 是 styles.xml 中 Heading1..3 的字号（半磅）。
var headingSizes = [3]int{32, 26, 24}

// Render 生成 .docx 字节流。内容本身不会导致失败，错误只来自序列化。
func Render(doc *markdown.Document, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if doc == nil {
		doc = &markdown.Document{}
	}

	parts := []struct {
		name string
		v    any
	}{
		{"[Content_Types].xml", contentTypes()},
		{"_rels/.rels", packageRels()},
		{"word/document.xml", buildDocument(doc, opts)},
		{"word/styles.xml", buildStyles(opts)},
		{"word/_rels/document.xml.rels", documentRels()},
		{"docProps/core.xml", buildCoreProps(doc, opts)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("创建 %s 失败: %w", p.name, err)
		}
		if err := writeXML(w, p.v); err != nil {
			return nil, fmt.Errorf("写入 %s 失败: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("关闭 docx 归档失败: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXML(w io.Writer, v any) error {
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Flush()
}

func buildDocument(doc *markdown.Document, opts Options) documentXML {
	body := bodyXML{
		Paragraphs: make([]paragraphXML, 0, len(doc.Blocks)),
		SectPr: sectPrXML{
			PageSize:   pageSizeXML{W: 11906, H: 16838},
			PageMargin: pageMarginXML{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440},
		},
	}
	for _, b := range doc.Blocks {
		body.Paragraphs = append(body.Paragraphs, blockParagraph(b, opts))
	}
	return documentXML{XmlnsW: nsW, XmlnsR: nsR, Body: body}
}

// blockParagraph 把一个块映射为一个段落。
func blockParagraph(b markdown.Block, opts Options) paragraphXML {
	var p paragraphXML
	switch b.Kind {
	case markdown.KindHeading:
		idx := clampLevel(b.Level) - 1
		spacing := headingSpacing[idx]
		p.Props = &paragraphPropsXML{
			Style:   &valXML{Val: "Heading" + strconv.Itoa(idx+1)},
			Spacing: &spacing,
		}
	case markdown.KindListItem:
		p.Props = &paragraphPropsXML{
			Spacing: &spacingXML{After: paragraphAfter},
			Indent:  &indentXML{Left: listIndentLeft, Hanging: listIndentHanging},
		}
		p.Runs = append(p.Runs, newRun(markdown.Span{Text: b.Marker + " ", Bold: true}, opts))
	default:
		p.Props = &paragraphPropsXML{Spacing: &spacingXML{After: paragraphAfter}}
	}
	for _, s := range b.Spans {
		p.Runs = append(p.Runs, newRun(s, opts))
	}
	return p
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > len(headingSpacing):
		return len(headingSpacing)
	default:
		return level
	}
}

func newRun(s markdown.Span, opts Options) runXML {
	size := &valXML{Val: strconv.Itoa(opts.FontSize)}
	r := runXML{
		Props: runPropsXML{
			Fonts:  &fontsXML{ASCII: opts.FontFamily, HAnsi: opts.FontFamily, CS: opts.FontFamily},
			Size:   size,
			SizeCS: size,
		},
		Text: textXML{Space: "preserve", Value: s.Text},
	}
	if s.Bold {
		r.Props.Bold = &emptyXML{}
	}
	if s.Italic {
		r.Props.Italic = &emptyXML{}
	}
	return r
}

func buildStyles(opts Options) stylesXML {
	size := &valXML{Val: strconv.Itoa(opts.FontSize)}
	st := stylesXML{XmlnsW: nsW}
	st.DocDefaults.RPrDefault.RPr = runPropsXML{
		Fonts:  &fontsXML{ASCII: opts.FontFamily, HAnsi: opts.FontFamily, CS: opts.FontFamily},
		Size:   size,
		SizeCS: size,
	}
	st.Styles = append(st.Styles, styleDefXML{
		Type:    "paragraph",
		StyleID: "Normal",
		Default: "1",
		Name:    valXML{Val: "Normal"},
	})
	for i, sz := range headingSizes {
		level := strconv.Itoa(i + 1)
		spacing := headingSpacing[i]
		hs := &valXML{Val: strconv.Itoa(sz)}
		st.Styles = append(st.Styles, styleDefXML{
			Type:    "paragraph",
			StyleID: "Heading" + level,
			Name:    valXML{Val: "heading " + level},
			BasedOn: &valXML{Val: "Normal"},
			Next:    &valXML{Val: "Normal"},
			PPr:     &paragraphPropsXML{Spacing: &spacing},
			RPr:     &runPropsXML{Bold: &emptyXML{}, Size: hs, SizeCS: hs},
		})
	}
	return st
}

func buildCoreProps(doc *markdown.Document, opts Options) corePropsXML {
	return corePropsXML{
		XmlnsCP:   nsCP,
		XmlnsDC:   nsDC,
		XmlnsDCT:  nsDCTerms,
		XmlnsXSI:  nsXSI,
		Title:     doc.Title(),
		Creator:   opts.Creator,
		Created:   &w3cDate{Type: "dcterms:W3CDTF", Value: opts.Now().UTC().Format(time.RFC3339)},
		LastSaved: opts.Creator,
	}
}

func contentTypes() contentTypesXML {
	return contentTypesXML{
		Xmlns: nsTypes,
		Defaults: []defaultTypeXML{
			{Extension: "rels", ContentType: relsType},
			{Extension: "xml", ContentType: "application/xml"},
		},
		Overrides: []overrideTypeXML{
			{PartName: "/word/document.xml", ContentType: mainType},
			{PartName: "/word/styles.xml", ContentType: stylesType},
			{PartName: "/docProps/core.xml", ContentType: coreType},
		},
	}
}

func packageRels() relationshipsXML {
	return relationshipsXML{
		Xmlns: nsRelPkg,
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relOffice, Target: "word/document.xml"},
			{ID: "rId2", Type: relCore, Target: "docProps/core.xml"},
		},
	}
}

func documentRels() relationshipsXML {
	return relationshipsXML{
		Xmlns: nsRelPkg,
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relStyles, Target: "styles.xml"},
		},
	}
}
