package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// Extractor pulls items out of RSS-like feed bodies. Third-party feeds are
// frequently not well-formed XML, so extraction is pattern-based and
// best-effort: a malformed item is skipped, never fatal to the document.
type Extractor struct{}

// NewExtractor creates an item extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

var (
	itemRe        = regexp.MustCompile(`(?is)<item(?:\s[^>]*)?>(.*?)</item>`)
	cdataRe       = regexp.MustCompile(`(?is)^\s*<!\[CDATA\[(.*?)\]\]>\s*$`)
	mediaContent  = regexp.MustCompile(`(?is)<media:content[^>]*\surl\s*=\s*"([^"]+)"`)
	mediaThumb    = regexp.MustCompile(`(?is)<media:thumbnail[^>]*\surl\s*=\s*"([^"]+)"`)
	enclosureRe   = regexp.MustCompile(`(?is)<enclosure\s[^>]*>`)
	attrURLRe     = regexp.MustCompile(`(?is)\surl\s*=\s*"([^"]+)"`)
	attrTypeRe    = regexp.MustCompile(`(?is)\stype\s*=\s*"([^"]+)"`)
	fieldPatterns = map[string]*regexp.Regexp{
		"title":       regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`),
		"link":        regexp.MustCompile(`(?is)<link[^>]*>(.*?)</link>`),
		"description": regexp.MustCompile(`(?is)<description[^>]*>(.*?)</description>`),
		"pubDate":     regexp.MustCompile(`(?is)<pubDate[^>]*>(.*?)</pubDate>`),
	}
)

// Extract returns the items found in the feed body in document order. Items
// missing a title or a link are discarded, everything else degrades to empty
// fields handled downstream.
func (e *Extractor) Extract(body string) []domain.RawFeedItem {
	blocks := itemRe.FindAllStringSubmatch(body, -1)

	items := make([]domain.RawFeedItem, 0, len(blocks))
	for _, block := range blocks {
		inner := block[1]

		item := domain.RawFeedItem{
			Title:       e.field(inner, "title"),
			Link:        e.field(inner, "link"),
			Description: e.field(inner, "description"),
			PubDate:     e.field(inner, "pubDate"),
			ImageURL:    e.imageURL(inner),
		}

		// title and link are both required to form a valid article
		if item.Title == "" || item.Link == "" {
			continue
		}

		items = append(items, item)
	}

	return items
}

// field extracts a single tag's text content, CDATA or plain
func (e *Extractor) field(block, name string) string {
	m := fieldPatterns[name].FindStringSubmatch(block)
	if m == nil {
		return ""
	}

	value := m[1]
	if cm := cdataRe.FindStringSubmatch(value); cm != nil {
		value = cm[1]
	} else {
		value = html.UnescapeString(value)
	}

	return strings.TrimSpace(value)
}

// imageURL resolves the best-effort item image, trying media:content, then
// media:thumbnail, then an enclosure with an image type
func (e *Extractor) imageURL(block string) string {
	if m := mediaContent.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	if m := mediaThumb.FindStringSubmatch(block); m != nil {
		return m[1]
	}

	for _, enc := range enclosureRe.FindAllString(block, -1) {
		typeMatch := attrTypeRe.FindStringSubmatch(enc)
		if typeMatch == nil || !strings.HasPrefix(strings.ToLower(typeMatch[1]), "image") {
			continue
		}
		if urlMatch := attrURLRe.FindStringSubmatch(enc); urlMatch != nil {
			return urlMatch[1]
		}
	}

	return ""
}
