package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

const (
	excerptLimit = 200
	idSlugLimit  = 50
)

// fallbackImages maps each category to a fixed stock image used when a feed
// item carries no image of its own
var fallbackImages = map[domain.Category]string{
	domain.CategoryFootball:   "https://images.unsplash.com/photo-1579952363873-27f3bade9f55?w=800",
	domain.CategoryBasketball: "https://images.unsplash.com/photo-1546519638-68e109498ffc?w=800",
	domain.CategoryTennis:     "https://images.unsplash.com/photo-1554068865-24cecd4e34b8?w=800",
	domain.CategoryBaseball:   "https://images.unsplash.com/photo-1508344928928-7165b67de128?w=800",
	domain.CategoryGeneral:    "https://images.unsplash.com/photo-1461896836934-ffe607ba8211?w=800",
}

// Normalizer turns raw feed items into persisted articles
type Normalizer struct {
	policy *bluemonday.Policy
}

// NewNormalizer creates a normalizer with a strict HTML stripping policy
func NewNormalizer() *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy()}
}

var (
	nonSlugRe     = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
	multiHyphenRe = regexp.MustCompile(`-{2,}`)
)

// Normalize converts a raw feed item into an article. It never fails: every
// malformed field degrades to a safe default.
func (n *Normalizer) Normalize(item domain.RawFeedItem, src domain.FeedSource) domain.Article {
	plain := n.stripHTML(item.Description)

	excerpt := plain
	if runes := []rune(plain); len(runes) > excerptLimit {
		excerpt = string(runes[:excerptLimit]) + "..."
	}

	image := item.ImageURL
	if image == "" {
		image = FallbackImage(src.Category)
	}

	return domain.Article{
		ID:          ArticleID(item.Link),
		Title:       n.stripHTML(item.Title),
		Excerpt:     excerpt,
		Content:     plain,
		Image:       image,
		Category:    src.Category,
		Source:      src.Source,
		PublishedAt: n.parsePublished(item.PubDate),
	}
}

// stripHTML removes all markup and decodes entities
func (n *Normalizer) stripHTML(s string) string {
	stripped := html.UnescapeString(n.policy.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// parsePublished parses the raw pubDate, substituting the current time when
// the value is missing or unparseable
func (n *Normalizer) parsePublished(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	ts, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Now()
	}
	return ts
}

// ArticleID derives a stable article id from the item link: the sanitized
// last path segment plus a short hash of the full link. The same link always
// produces the same id, which is what makes the upsert idempotent across
// cycles.
func ArticleID(link string) string {
	slug := link
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		slug = path.Base(u.Path)
	}

	slug = nonSlugRe.ReplaceAllString(slug, "-")
	slug = multiHyphenRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > idSlugLimit {
		slug = slug[:idSlugLimit]
	}

	sum := sha256.Sum256([]byte(link))
	suffix := hex.EncodeToString(sum[:4])

	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}

// FallbackImage returns the fixed image URL for a category, defaulting to the
// general one for anything unrecognized
func FallbackImage(category domain.Category) string {
	if img, ok := fallbackImages[category]; ok {
		return img
	}
	return fallbackImages[domain.CategoryGeneral]
}
