package attendance

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

const pdfLinesPerPage = 52

// RenderPDF lays the text report out on A4 pages in Courier so the fixed
// width columns stay aligned.
func RenderPDF(rep Report) []byte {
	return buildTextPDF(ReportLines(rep))
}

func buildTextPDF(lines []string) []byte {
	if len(lines) == 0 {
		lines = []string{"Attendance report"}
	}

	var pages [][]string
	for start := 0; start < len(lines); start += pdfLinesPerPage {
		end := start + pdfLinesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}

	// 1 catalog, 2 pages, 3 font, then a page and a content object per page.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), len(pages)),
		"3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding >>\nendobj\n",
	}
	for i, page := range pages {
		pageObj, contentObj := 4+2*i, 5+2*i
		stream := pageStream(page)
		objects = append(objects,
			fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>\nendobj\n", pageObj, contentObj),
			fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", contentObj, len(stream), stream),
		)
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes()
}

func pageStream(lines []string) string {
	var content strings.Builder
	content.WriteString("BT\n/F1 9 Tf\n14 TL\n40 800 Td\n")
	for i, line := range lines {
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", pdfEscape(line)))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", pdfEscape(line)))
	}
	content.WriteString("ET")
	return content.String()
}

var pdfEscaper = strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")

// pdfEscape escapes v for a literal string and encodes it as WinAnsi, one
// byte per glyph, so Courier columns stay aligned. Letters outside WinAnsi
// fall back to their base letter (ő to o), anything else to '?'.
func pdfEscape(v string) string {
	v = pdfEscaper.Replace(v)
	out := make([]byte, 0, len(v))
	for _, r := range v {
		if b, ok := charmap.Windows1252.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		if base := []rune(norm.NFD.String(string(r))); len(base) > 1 {
			if b, ok := charmap.Windows1252.EncodeRune(base[0]); ok {
				out = append(out, b)
				continue
			}
		}
		out = append(out, '?')
	}
	return string(out)
}
