// Package website reshapes the remote table into the static site's data
// artifacts: articles.json and the typed articles.ts export.
package website

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go_curator/internal/bitable"
	"github.com/anatolykoptev/go_curator/internal/curator"
)

// Article is one published entry of the website data file.
type Article struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Date         string   `json:"date"` // 2006.01.02, sorts lexically
	CoverURL     string   `json:"coverUrl"`
	Tags         []string `json:"tags"`
	Type         string   `json:"type"` // video / podcast / article
	PreviewQuote string   `json:"previewQuote"`
	Nuggets      []string `json:"nuggets"`
	Content      string   `json:"content"`
	SourceLink   string   `json:"sourceLink"`
	Host         string   `json:"host,omitempty"`
	Guest        string   `json:"guest,omitempty"`
}

var (
	chunkTitleRe  = regexp.MustCompile(`\[\d+/\d+\]`)
	hostPrefixRe  = regexp.MustCompile(`(?i)^host[:：]\s*(.+)$`)
	guestPrefixRe = regexp.MustCompile(`(?i)^guest[:：]\s*(.+)$`)
	nuggetOrdRe   = regexp.MustCompile(`^\d+[.、\s]+`)
)

// Build converts table records to articles. Records without a title or
// summary, and chunk continuation rows, are skipped. Result is sorted by
// date descending.
func Build(records []bitable.Record) []Article {
	var articles []Article
	for _, rec := range records {
		if rec.Title == "" || rec.Summary == "" {
			continue
		}
		if chunkTitleRe.MatchString(rec.Title) {
			continue
		}
		articles = append(articles, buildArticle(rec))
	}
	sortArticles(articles)
	return articles
}

func buildArticle(rec bitable.Record) Article {
	a := Article{
		ID:         rec.ID,
		Title:      rec.Title,
		Author:     rec.Author,
		CoverURL:   rec.CoverURL,
		SourceLink: rec.SourceLink,
		Content:    CleanContent(rec.Summary),
	}

	switch {
	case !rec.Published.IsZero():
		a.Date = rec.Published.Format("2006.01.02")
	case rec.CreatedTime > 0:
		a.Date = time.UnixMilli(rec.CreatedTime).Format("2006.01.02")
	default:
		a.Date = time.Now().Format("2006.01.02")
	}

	a.Type = articleType(rec)
	a.Host, a.Guest = splitAuthor(rec.Author)

	// Podcasts and videos without an author: try to pull a guest name out
	// of the summary.
	if a.Author == "" && (a.Type == "podcast" || a.Type == "video") {
		if guest := curator.ExtractGuestName(rec.Summary); guest != "" {
			a.Guest = guest
			if a.Type == "podcast" {
				a.Author = "Guest: " + guest
			} else {
				a.Author = guest
			}
		}
	}

	a.Nuggets = nuggets(rec)
	a.PreviewQuote = curator.PreviewQuote(a.Nuggets)
	a.Tags = tags(rec, a.Guest)
	return a
}

// articleType trusts the stored category when it is one of the valid values
// and derives it from the platform otherwise.
func articleType(rec bitable.Record) string {
	switch rec.Category {
	case curator.CategoryVideo, curator.CategoryPodcast, curator.CategoryArticle:
		return rec.Category
	}
	platform := strings.ToLower(rec.Platform)
	if platform == "" {
		platform = curator.DetectPlatform(rec.SourceLink)
	}
	return curator.CategoryFor(platform)
}

// splitAuthor recognizes the "Host: X" / "Guest: X" author conventions.
func splitAuthor(author string) (host, guest string) {
	if m := guestPrefixRe.FindStringSubmatch(author); len(m) > 1 {
		return "", strings.TrimSpace(m[1])
	}
	if m := hostPrefixRe.FindStringSubmatch(author); len(m) > 1 {
		return strings.TrimSpace(m[1]), ""
	}
	return "", ""
}

// nuggets prefers the stored quotes field, ordinals stripped, and falls back
// to extracting quotes from the summary.
func nuggets(rec bitable.Record) []string {
	var out []string
	for _, line := range strings.Split(rec.Quotes, "\n") {
		line = strings.TrimSpace(nuggetOrdRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		out = curator.ExtractQuotes(rec.Summary)
	}
	return out
}

func tags(rec bitable.Record, guest string) []string {
	tags := curator.ExtractTags(rec.Summary)
	if rec.Platform != "" {
		platformTag := "#" + strings.ToUpper(rec.Platform)
		if !contains(tags, platformTag) {
			tags = append(tags, platformTag)
		}
	}
	if guest != "" && !contains(tags, "#Interview") {
		tags = append(tags, "#Interview")
	}
	return tags
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func sortArticles(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Date > articles[j].Date
	})
}

// LoadArticles reads an existing articles.json. Missing or unreadable files
// yield an empty set so a first build starts clean.
func LoadArticles(path string) ([]Article, map[string]bool) {
	ids := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ids
	}
	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, ids
	}
	for _, a := range articles {
		if a.ID != "" {
			ids[a.ID] = true
		}
	}
	return articles, ids
}

// Incremental merges only records absent from the existing article set and
// returns the merged, re-sorted list plus the number added.
func Incremental(existing []Article, existingIDs map[string]bool, records []bitable.Record) ([]Article, int) {
	var fresh []bitable.Record
	for _, rec := range records {
		if !existingIDs[rec.ID] {
			fresh = append(fresh, rec)
		}
	}
	added := Build(fresh)
	merged := append(existing, added...)
	sortArticles(merged)
	return merged, len(added)
}

// WriteJSON replaces the articles file atomically: full content to a temp
// file in the same directory, then rename.
func WriteJSON(path string, articles []Article) error {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return err
	}
	return replaceFile(path, data)
}

// WriteTS writes the typed articles.ts export next to the site source.
func WriteTS(path string, articles []Article) error {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("// Generated file, do not edit by hand.\n")
	fmt.Fprintf(&sb, "// Built: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString("import { Article } from '../types';\n\n")
	sb.WriteString("export const ARTICLES: Article[] = ")
	sb.Write(data)
	sb.WriteString(" as const;\n")
	return replaceFile(path, []byte(sb.String()))
}

func replaceFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
