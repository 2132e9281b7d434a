package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/ocrselect/pkg/wordset"
)

// Classes that start a new text line. Words outside any of them get a line of
// their own.
var lineClasses = []string{"ocr_line", "ocr_textfloat", "ocr_header", "ocr_caption"}

// Parse converts raw hOCR data into pages of words.
// Non UTF-8 documents are decoded according to their charset meta.
func Parse(data []byte) (Document, error) {
	var doc Document

	decoded, err := decode(data)
	if err != nil {
		return doc, err
	}

	root, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return doc, fmt.Errorf("failed to parse hOCR: %w", err)
	}
	readMeta(&doc, root)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			doc.Pages = append(doc.Pages, readPage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(root)

	if len(doc.Pages) == 0 {
		return doc, ErrNoPages
	}
	return doc, nil
}

// decode returns data as UTF-8 based on the declared charset
func decode(data []byte) ([]byte, error) {
	enc := declaredCharset(data)
	if enc == "" || enc == "utf-8" || enc == "utf8" {
		return data, nil
	}

	var dec *encoding.Decoder
	switch enc {
	case "windows-1252", "cp1252":
		dec = charmap.Windows1252.NewDecoder()
	case "iso-8859-15", "latin9":
		dec = charmap.ISO8859_15.NewDecoder()
	default:
		dec = charmap.ISO8859_1.NewDecoder()
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
	}
	return out, nil
}

// declaredCharset finds a charset= declaration near the start of the document
func declaredCharset(data []byte) string {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	content := strings.ToLower(string(head))
	i := strings.Index(content, "charset=")
	if i < 0 {
		return ""
	}
	fields := strings.FieldsFunc(content[i+len("charset="):], func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == '/' || r == ' '
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseTitle breaks down an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBox extracts the bbox property of a title
func ParseBoundingBox(title string) (BoundingBox, bool) {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return BoundingBox{}, false
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return BoundingBox{}, false
		}
		v[i] = f
	}
	return NewBoundingBox(v[0], v[1], v[2], v[3]), true
}

// readMeta reads document level metadata from the html and head elements
func readMeta(doc *Document, root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := attr(n, "lang"); lang != "" {
					doc.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				switch attr(n, "name") {
				case "ocr-system":
					doc.System = attr(n, "content")
				case "dc.language":
					doc.Language = attr(n, "content")
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// readPage flattens one ocr_page into words with line ids
func readPage(n *html.Node) Page {
	page := Page{ID: attr(n, "id")}

	props := ParseTitle(attr(n, "title"))
	if bbox, ok := ParseBoundingBox(attr(n, "title")); ok {
		page.BBox = bbox
	}
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"`)
	}
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}

	lineID := 0
	var walk func(node *html.Node, inLine bool)
	walk = func(node *html.Node, inLine bool) {
		if node.Type == html.ElementNode {
			if isLine(node) {
				lineID++
				inLine = true
			} else if hasClass(node, "ocrx_word") {
				if !inLine {
					lineID++
				}
				if w, ok := readWord(node, len(page.Words)+1, lineID); ok {
					page.Words = append(page.Words, w)
				}
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inLine)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, false)
	}
	return page
}

// readWord converts an ocrx_word element. Words without a bbox or text are skipped.
func readWord(n *html.Node, id, lineID int) (wordset.Word, bool) {
	title := attr(n, "title")
	bbox, ok := ParseBoundingBox(title)
	if !ok {
		return wordset.Word{}, false
	}
	text := textContent(n)
	if text == "" {
		return wordset.Word{}, false
	}

	r := bbox.Rect()
	w := wordset.Word{
		ID:     id,
		Text:   text,
		Left:   r.Left,
		Top:    r.Top,
		Width:  r.Width,
		Height: r.Height,
		LineID: lineID,
	}
	if conf, ok := ParseTitle(title)["x_wconf"]; ok && len(conf) > 0 {
		if c, err := strconv.ParseFloat(conf[0], 64); err == nil {
			c /= 100
			w.Confidence = &c
		}
	}
	return w, true
}

// textContent gets all text from a node and its children
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func isLine(n *html.Node) bool {
	for _, class := range lineClasses {
		if hasClass(n, class) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// attr returns the value of a specific attribute
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
