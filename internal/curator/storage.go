package curator

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Storage persists extracted items as a fixed set of files under a root
// directory and keeps the processed-items ledger (.processed.json) so reruns
// can skip finished work.
type Storage struct {
	root       string
	ledgerPath string
	processed  map[string]LedgerEntry
}

// LedgerEntry marks one item as fully processed.
type LedgerEntry struct {
	ProcessedAt time.Time `json:"processed_at"`
	Title       string    `json:"title,omitempty"`
	Platform    string    `json:"platform,omitempty"`
}

const ledgerFile = ".processed.json"

// NewStorage creates the output root if needed and loads the ledger.
func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Storage{
		root:       root,
		ledgerPath: filepath.Join(root, ledgerFile),
		processed:  make(map[string]LedgerEntry),
	}
	data, err := os.ReadFile(s.ledgerPath)
	if err == nil {
		if jerr := json.Unmarshal(data, &s.processed); jerr != nil {
			slog.Warn("storage: ledger unreadable, starting fresh", slog.Any("error", jerr))
			s.processed = make(map[string]LedgerEntry)
		}
	}
	return s, nil
}

// Root returns the output root directory.
func (s *Storage) Root() string { return s.root }

var illegalTitleRe = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeTitle makes a title safe to use as a directory name.
func SanitizeTitle(title string) string {
	clean := illegalTitleRe.ReplaceAllString(title, "_")
	clean = strings.TrimSpace(clean)
	if r := []rune(clean); len(r) > 100 {
		clean = string(r[:100])
	}
	return clean
}

// ItemDir returns the per-item output directory for a title.
func (s *Storage) ItemDir(title string) string {
	return filepath.Join(s.root, SanitizeTitle(title))
}

// SaveAll writes metadata.md, transcript.md, and rewritten.md for one item.
// The three writes are independent so one failure does not lose the others;
// the first error is returned after all writes are attempted.
func (s *Storage) SaveAll(ext Extraction, transcript, rewritten string) (string, error) {
	dir := s.ItemDir(ext.Title)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create item dir: %w", err)
	}

	var firstErr error
	save := func(name, content string) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			slog.Error("storage: write failed", slog.String("file", path), slog.Any("error", err))
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		slog.Debug("storage: saved", slog.String("file", path))
	}

	save("metadata.md", renderMetadata(ext))
	save("transcript.md", renderTranscript(ext, transcript))
	save("rewritten.md", renderRewritten(ext, rewritten))
	return dir, firstErr
}

func renderMetadata(ext Extraction) string {
	var sb strings.Builder
	sb.WriteString("# Item Metadata\n\n## Basics\n\n")
	sb.WriteString("| Field | Value |\n|-------|-------|\n")
	fmt.Fprintf(&sb, "| ID | `%s` |\n", ext.ID)
	fmt.Fprintf(&sb, "| Platform | %s |\n", strings.ToUpper(ext.Platform))
	fmt.Fprintf(&sb, "| Category | %s |\n", CategoryFor(ext.Platform))
	if !ext.PublishedAt.IsZero() {
		fmt.Fprintf(&sb, "| Published | %s |\n", ext.PublishedAt.Format("2006-01-02"))
	}
	if ext.Duration > 0 {
		fmt.Fprintf(&sb, "| Duration | %s |\n", FormatDuration(ext.Duration))
	}
	sb.WriteString("\n## Title\n\n| Field | Value |\n|-------|-------|\n")
	fmt.Fprintf(&sb, "| Title | %s |\n", ext.Title)
	sb.WriteString("\n## Author\n\n| Field | Value |\n|-------|-------|\n")
	fmt.Fprintf(&sb, "| Author | %s |\n", ext.Author)
	sb.WriteString("\n## Source\n\n")
	fmt.Fprintf(&sb, "- Link: %s\n", ext.URL)
	if ext.CoverURL != "" {
		fmt.Fprintf(&sb, "- Cover: %s\n", ext.CoverURL)
	}
	fmt.Fprintf(&sb, "\n---\n\n*Processed: %s*\n", time.Now().Format("2006-01-02 15:04:05"))
	return sb.String()
}

func renderTranscript(ext Extraction, transcript string) string {
	return fmt.Sprintf("# %s\n\n*Platform: %s*\n\n---\n\n## Transcript\n\n%s\n",
		ext.Title, strings.ToUpper(ext.Platform), transcript)
}

func renderRewritten(ext Extraction, rewritten string) string {
	return fmt.Sprintf("# %s — Summary\n\n---\n\n%s\n", ext.Title, rewritten)
}

// ItemFiles holds the raw contents of one item directory, read back for
// re-upload.
type ItemFiles struct {
	Meta       map[string]string // metadata.md table fields
	SourceURL  string
	CoverURL   string
	Transcript string
	Rewritten  string
}

var (
	sourceLinkRe     = regexp.MustCompile(`(?m)^-\s*Link:\s*(.+)$`)
	coverLinkRe      = regexp.MustCompile(`(?m)^-\s*Cover:\s*(.+)$`)
	transcriptHeadRe = regexp.MustCompile(`(?s)\A.*?## Transcript\n+`)
)

// RawTranscript strips the transcript.md framing (title, platform line,
// section heading) and returns the extracted text. Input without the framing
// passes through unchanged.
func RawTranscript(stored string) string {
	return strings.TrimSpace(transcriptHeadRe.ReplaceAllString(stored, ""))
}

// LoadItemDir reads one item directory back. Missing files are left blank;
// only a missing metadata.md is an error since nothing can be keyed then.
func LoadItemDir(dir string) (ItemFiles, error) {
	var f ItemFiles
	meta, err := os.ReadFile(filepath.Join(dir, "metadata.md"))
	if err != nil {
		return f, fmt.Errorf("read metadata: %w", err)
	}
	md := string(meta)
	f.Meta = ParseMetadataTable(md)
	if m := sourceLinkRe.FindStringSubmatch(md); len(m) > 1 {
		f.SourceURL = strings.TrimSpace(m[1])
	}
	if m := coverLinkRe.FindStringSubmatch(md); len(m) > 1 {
		f.CoverURL = strings.TrimSpace(m[1])
	}
	if b, err := os.ReadFile(filepath.Join(dir, "transcript.md")); err == nil {
		f.Transcript = string(b)
	}
	if b, err := os.ReadFile(filepath.Join(dir, "rewritten.md")); err == nil {
		f.Rewritten = string(b)
	}
	return f, nil
}

// IsProcessed reports whether an item ID is in the ledger.
func (s *Storage) IsProcessed(id string) bool {
	_, ok := s.processed[id]
	return ok
}

// MarkProcessed records an item in the ledger and writes it to disk.
func (s *Storage) MarkProcessed(id string, ext Extraction) {
	s.processed[id] = LedgerEntry{
		ProcessedAt: time.Now(),
		Title:       ext.Title,
		Platform:    ext.Platform,
	}
	if err := s.saveLedger(); err != nil {
		slog.Warn("storage: ledger save failed", slog.Any("error", err))
	}
}

func (s *Storage) saveLedger() error {
	data, err := json.MarshalIndent(s.processed, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.ledgerPath, data, 0o644)
}

// Stats summarizes the ledger: total items and a per-platform breakdown.
func (s *Storage) Stats() (total int, byPlatform map[string]int) {
	byPlatform = make(map[string]int)
	for _, e := range s.processed {
		platform := e.Platform
		if platform == "" {
			platform = "unknown"
		}
		byPlatform[platform]++
	}
	return len(s.processed), byPlatform
}

// ClearLedger empties the ledger, backing the old file up first.
func (s *Storage) ClearLedger() (backup string, err error) {
	if _, statErr := os.Stat(s.ledgerPath); statErr == nil {
		backup = s.ledgerPath + ".backup." + time.Now().Format("20060102_150405")
		if err = os.Rename(s.ledgerPath, backup); err != nil {
			return "", fmt.Errorf("backup ledger: %w", err)
		}
	}
	s.processed = make(map[string]LedgerEntry)
	return backup, s.saveLedger()
}

// FormatDuration renders seconds as a compact h/m/s string.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "unknown"
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
