package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"compliance-backend/internal/documents"
)

const (
	nsWordML        = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsXML           = "http://www.w3.org/XML/1998/namespace"
)

// docxPage is the format-specific input of the DOCX serializer.
type docxPage struct {
	Title      string
	TitleLines []string
	Header     string
	Author     string
	Created    time.Time
	Nodes      []documents.Node
}

func renderDOCX(page docxPage) ([]byte, error) {
	documentXML := documentPart(page)
	if err := validateDocumentXML(documentXML); err != nil {
		return nil, err
	}

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesPart},
		{"_rels/.rels", rootRelsPart},
		{"docProps/core.xml", corePart(page)},
		{"docProps/app.xml", appPart},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", documentRelsPart},
		{"word/styles.xml", stylesPart},
		{"word/numbering.xml", numberingPart},
		{"word/header1.xml", headerPart(page.Header)},
		{"word/footer1.xml", footerPart},
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	for _, part := range parts {
		if err := writeZipEntry(writer, part.name, part.content, page.Created); err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func writeZipEntry(writer *zip.Writer, name, content string, modified time.Time) error {
	header := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified}
	dst, err := writer.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.WriteString(dst, content)
	return err
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + escapeXML(text) + `</w:t></w:r>`
}

func styledParagraph(style, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>` + run(text) + `</w:p>`
}

func bulletParagraph(text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="ListBullet"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>` + run(text) + `</w:p>`
}

const pageBreak = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

func documentPart(page docxPage) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="` + nsWordML + `" xmlns:r="` + nsRelationships + `"><w:body>`)

	b.WriteString(styledParagraph("Title", page.Title))
	for _, line := range page.TitleLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(styledParagraph("Subtitle", line))
	}
	b.WriteString(pageBreak)

	for _, node := range page.Nodes {
		switch node.Kind {
		case documents.NodeHeading:
			b.WriteString(styledParagraph("Heading1", node.Text))
		case documents.NodeSubheading:
			b.WriteString(styledParagraph("Heading2", node.Text))
		case documents.NodeBullet:
			b.WriteString(bulletParagraph(node.Text))
		default:
			b.WriteString(styledParagraph("Normal", node.Text))
		}
	}

	b.WriteString(`<w:sectPr>`)
	b.WriteString(`<w:headerReference w:type="default" r:id="rIdHeader1"/>`)
	b.WriteString(`<w:footerReference w:type="default" r:id="rIdFooter1"/>`)
	b.WriteString(`<w:pgSz w:w="11906" w:h="16838"/>`)
	b.WriteString(`<w:pgMar w:top="1417" w:right="1417" w:bottom="1417" w:left="1417" w:header="708" w:footer="708" w:gutter="0"/>`)
	b.WriteString(`<w:titlePg/>`)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func headerPart(text string) string {
	return xml.Header + `<w:hdr xmlns:w="` + nsWordML + `" xmlns:r="` + nsRelationships + `">` +
		styledParagraph("Header", text) + `</w:hdr>`
}

var footerPart = xml.Header + `<w:ftr xmlns:w="` + nsWordML + `" xmlns:r="` + nsRelationships + `">` +
	`<w:p><w:pPr><w:pStyle w:val="Footer"/><w:jc w:val="center"/></w:pPr>` +
	run("Page ") +
	`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple>` +
	run(" / ") +
	`<w:fldSimple w:instr=" NUMPAGES "><w:r><w:t>1</w:t></w:r></w:fldSimple>` +
	`</w:p></w:ftr>`

func corePart(page docxPage) string {
	created := page.Created.UTC().Format(time.RFC3339)
	return xml.Header +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escapeXML(page.Title) + `</dc:title>` +
		`<dc:creator>` + escapeXML(page.Author) + `</dc:creator>` +
		`<cp:lastModifiedBy>` + escapeXML(page.Author) + `</cp:lastModifiedBy>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + created + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + created + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

const appPart = xml.Header +
	`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>compliance-backend</Application></Properties>`

const contentTypesPart = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` +
	`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>` +
	`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
	`</Types>`

const rootRelsPart = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
	`</Relationships>`

const documentRelsPart = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`<Relationship Id="rIdNumbering" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>` +
	`<Relationship Id="rIdHeader1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>` +
	`<Relationship Id="rIdFooter1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>` +
	`</Relationships>`

func paragraphStyle(id, name string, size int, bold bool, spacingAfter int) string {
	rPr := fmt.Sprintf(`<w:sz w:val="%d"/>`, size)
	if bold {
		rPr = `<w:b/>` + rPr
	}
	return fmt.Sprintf(`<w:style w:type="paragraph" w:styleId="%s"><w:name w:val="%s"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:after="%d"/></w:pPr><w:rPr>%s</w:rPr></w:style>`,
		id, name, spacingAfter, rPr)
}

var stylesPart = xml.Header +
	`<w:styles xmlns:w="` + nsWordML + `">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/><w:lang w:val="fr-FR"/></w:rPr></w:rPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:pPr><w:spacing w:after="120"/></w:pPr></w:style>` +
	paragraphStyle("Title", "Title", 56, true, 480) +
	paragraphStyle("Subtitle", "Subtitle", 28, false, 200) +
	paragraphStyle("Heading1", "heading 1", 32, true, 200) +
	paragraphStyle("Heading2", "heading 2", 26, true, 120) +
	paragraphStyle("ListBullet", "List Bullet", 22, false, 60) +
	paragraphStyle("Header", "header", 18, false, 0) +
	paragraphStyle("Footer", "footer", 18, false, 0) +
	`</w:styles>`

var numberingPart = xml.Header +
	`<w:numbering xmlns:w="` + nsWordML + `">` +
	`<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="singleLevel"/>` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="` + "•" + `"/><w:lvlJc w:val="left"/>` +
	`<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>` +
	`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
	`</w:numbering>`

// validateDocumentXML checks that document.xml is well formed and that every
// prefixed element or attribute resolves to a declared namespace.
func validateDocumentXML(xmlText string) error {
	allowed := map[string]bool{nsWordML: true, nsRelationships: true, nsXML: true, "xmlns": true}
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	sawBody := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document.xml parse failed: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Space != nsWordML {
			return fmt.Errorf("document.xml element %s:%s uses an undeclared namespace", start.Name.Space, start.Name.Local)
		}
		if start.Name.Local == "body" {
			sawBody = true
		}
		for _, attr := range start.Attr {
			if attr.Name.Space != "" && !allowed[attr.Name.Space] {
				return fmt.Errorf("document.xml attribute %s:%s uses an undeclared namespace", attr.Name.Space, attr.Name.Local)
			}
		}
	}
	if !sawBody {
		return fmt.Errorf("document.xml has no body")
	}
	return nil
}
