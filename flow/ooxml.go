package flow

import "encoding/xml"

// XML namespaces used in the generated package.
const (
	nsW        = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRelPkg   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes    = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCP       = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC       = "http://purl.org/dc/elements/1.1/"
	nsDCTerms  = "http://purl.org/dc/terms/"
	nsXSI      = "http://www.w3.org/2001/XMLSchema-instance"
	relOffice  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relStyles  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relCore    = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	mainType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	stylesType = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	coreType   = "application/vnd.openxmlformats-package.core-properties+xml"
	relsType   = "application/vnd.openxmlformats-package.relationships+xml"
)

// Element names carry their prefix literally ("w:p"); encoding/xml writes
// them as-is, which is what Word expects.

// documentXML represents word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	Body    bodyXML  `xml:"w:body"`
}

type bodyXML struct {
	Paragraphs []paragraphXML `xml:"w:p"`
	SectPr     sectPrXML      `xml:"w:sectPr"`
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	Props *paragraphPropsXML `xml:"w:pPr,omitempty"`
	Runs  []runXML           `xml:"w:r"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style   *valXML     `xml:"w:pStyle,omitempty"`
	Spacing *spacingXML `xml:"w:spacing,omitempty"`
	Indent  *indentXML  `xml:"w:ind,omitempty"`
}

// spacingXML values are twentieths of a point.
type spacingXML struct {
	Before int `xml:"w:before,attr,omitempty"`
	After  int `xml:"w:after,attr,omitempty"`
}

type indentXML struct {
	Left    int `xml:"w:left,attr"`
	Hanging int `xml:"w:hanging,attr"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Props runPropsXML `xml:"w:rPr"`
	Text  textXML     `xml:"w:t"`
}

type runPropsXML struct {
	Fonts  *fontsXML `xml:"w:rFonts,omitempty"`
	Bold   *emptyXML `xml:"w:b,omitempty"`
	Italic *emptyXML `xml:"w:i,omitempty"`
	Size   *valXML   `xml:"w:sz,omitempty"`
	SizeCS *valXML   `xml:"w:szCs,omitempty"`
}

type fontsXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

type textXML struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

type valXML struct {
	Val string `xml:"w:val,attr"`
}

type emptyXML struct{}

// sectPrXML: A4 portrait with one-inch margins, in twips.
type sectPrXML struct {
	PageSize   pageSizeXML   `xml:"w:pgSz"`
	PageMargin pageMarginXML `xml:"w:pgMar"`
}

type pageSizeXML struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type pageMarginXML struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
}

// stylesXML represents word/styles.xml.
type stylesXML struct {
	XMLName     xml.Name       `xml:"w:styles"`
	XmlnsW      string         `xml:"xmlns:w,attr"`
	DocDefaults docDefaultsXML `xml:"w:docDefaults"`
	Styles      []styleDefXML  `xml:"w:style"`
}

type docDefaultsXML struct {
	RPrDefault struct {
		RPr runPropsXML `xml:"w:rPr"`
	} `xml:"w:rPrDefault"`
}

type styleDefXML struct {
	Type    string             `xml:"w:type,attr"`
	StyleID string             `xml:"w:styleId,attr"`
	Default string             `xml:"w:default,attr,omitempty"`
	Name    valXML             `xml:"w:name"`
	BasedOn *valXML            `xml:"w:basedOn,omitempty"`
	Next    *valXML            `xml:"w:next,omitempty"`
	PPr     *paragraphPropsXML `xml:"w:pPr,omitempty"`
	RPr     *runPropsXML       `xml:"w:rPr,omitempty"`
}

// Package plumbing.

type contentTypesXML struct {
	XMLName   xml.Name          `xml:"Types"`
	Xmlns     string            `xml:"xmlns,attr"`
	Defaults  []defaultTypeXML  `xml:"Default"`
	Overrides []overrideTypeXML `xml:"Override"`
}

type defaultTypeXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideTypeXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type corePropsXML struct {
	XMLName   xml.Name `xml:"cp:coreProperties"`
	XmlnsCP   string   `xml:"xmlns:cp,attr"`
	XmlnsDC   string   `xml:"xmlns:dc,attr"`
	XmlnsDCT  string   `xml:"xmlns:dcterms,attr"`
	XmlnsXSI  string   `xml:"xmlns:xsi,attr"`
	Title     string   `xml:"dc:title,omitempty"`
	Creator   string   `xml:"dc:creator,omitempty"`
	Created   *w3cDate `xml:"dcterms:created,omitempty"`
	LastSaved string   `xml:"cp:lastModifiedBy,omitempty"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}
