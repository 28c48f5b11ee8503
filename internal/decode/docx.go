package decode

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// decodeDOCX walks word/document.xml in document order: paragraphs become
// lines, table rows become tab-separated lines.
func decodeDOCX(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx container: %w", err)
	}
	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, errors.New("docx: word/document.xml missing")
	}
	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()
	return walkDocumentXML(rc)
}

// walkDocumentXML streams the WordprocessingML body. Only the structural
// elements that carry or delimit text matter: w:p, w:t, w:tab, w:br,
// w:tc, w:tr.
func walkDocumentXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var lines []string
	var para strings.Builder
	var row []string
	inText := false
	cellDepth := 0

	flushPara := func() {
		text := strings.TrimRight(para.String(), " ")
		para.Reset()
		if cellDepth > 0 {
			if len(row) == 0 {
				row = append(row, text)
			} else {
				row[len(row)-1] += text
			}
			return
		}
		if text != "" {
			lines = append(lines, text)
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br":
				flushPara()
			case "tc":
				cellDepth++
				row = append(row, "")
			case "tr":
				row = row[:0]
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flushPara()
			case "tc":
				cellDepth--
			case "tr":
				cells := make([]string, len(row))
				copy(cells, row)
				lines = append(lines, strings.Join(cells, "\t"))
				row = row[:0]
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	flushPara()
	return lines, nil
}
