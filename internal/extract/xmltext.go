package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// xmlEntities restores the predefined XML entities left inside extracted
// text nodes.
var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// tagStrip removes any markup left inside a paragraph chunk, so text nested
// in inline elements survives.
var tagStrip = regexp.MustCompile(`<[^>]*>`)

// readZipFile returns the named file's bytes, or nil when the archive has no
// such entry.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		_ = rc.Close()
		return buf.Bytes(), nil
	}
	return nil, nil
}

// paragraphLines splits packaged XML on a paragraph closing tag and
// concatenates the text nodes inside each paragraph into one line. Runs
// inside a paragraph are contiguous text, so they join without separators.
func paragraphLines(xml, closeTag string, textTag *regexp.Regexp) []string {
	var lines []string
	for _, para := range strings.Split(xml, closeTag) {
		runs := textTag.FindAllStringSubmatch(para, -1)
		if len(runs) == 0 {
			continue
		}
		var b strings.Builder
		for _, r := range runs {
			b.WriteString(xmlEntities.Replace(r[1]))
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
