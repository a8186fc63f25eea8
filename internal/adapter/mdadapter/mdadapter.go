package mdadapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

const (
	mdExtension = ".md"
	maxFiles    = 1000
)

// mdAdapter scans a folder of markdown files, one catalog record per file.
// The frontmatter carries the catalog fields (imgUrl, fileName, type,
// category, price, links), the rendered body becomes pageDescription.
type mdAdapter struct {
	fs  afero.Fs
	dir string
	md  goldmark.Markdown
	log *slog.Logger
}

func NewMDAdapter(dir string, log *slog.Logger) *mdAdapter {
	return NewMDAdapterWithFS(afero.NewOsFs(), dir, log)
}

func NewMDAdapterWithFS(fs afero.Fs, dir string, log *slog.Logger) *mdAdapter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &mdAdapter{
		fs:  fs,
		dir: dir,
		md:  md,
		log: log.With(slog.String("item", "MDAdapter")),
	}
}

func (a *mdAdapter) Scan(ctx context.Context) ([]map[string]any, error) {
	if strings.Contains(a.dir, "..") {
		return nil, fmt.Errorf("invalid work dir")
	}

	entries, err := afero.ReadDir(a.fs, a.dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read work dir %s: %w", a.dir, err)
	}

	var records []map[string]any
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if entry.IsDir() || !strings.HasSuffix(entry.Name(), mdExtension) {
			continue
		}

		record, err := a.toRecord(filepath.Join(a.dir, entry.Name()))
		if err != nil {
			a.log.Error("Cannot parse description file", slog.String("file", entry.Name()), slog.Any("error", err))

			continue
		}

		records = append(records, record)

		if len(records) >= maxFiles {
			break
		}
	}

	a.log.Info("Scanned work dir", slog.String("dir", a.dir), slog.Int("records", len(records)))

	return records, nil
}

func (a *mdAdapter) toRecord(path string) (map[string]any, error) {
	content, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := a.md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("cannot render markdown: %w", err)
	}

	record := make(map[string]any)
	if fm := frontmatter.Get(pctx); fm != nil {
		if err := fm.Decode(&record); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}
	}

	if body := strings.TrimSpace(buf.String()); body != "" {
		record["pageDescription"] = body
	}

	if _, ok := record["fileName"]; !ok {
		record["fileName"] = strings.TrimSuffix(filepath.Base(path), mdExtension)
	}

	return record, nil
}
