package library

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cetgrade/internal/model"
)

// ProductTag prefixes export file names.
const ProductTag = "CET6_表达库"

const (
	exportTitle  = "大学英语六级翻译 - 我的表达库"
	exportFooter = "加油！坚持积累，六级必过！"
)

var (
	heavyRule = strings.Repeat("=", 40)
	lightRule = strings.Repeat("-", 40)
)

// Document is a rendered export.
type Document struct {
	Name string
	Body string
}

// FileName returns the export file name for the given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("%s_%s.txt", ProductTag, now.Format("2006-01-02"))
}

// Export renders the library as plain text grouped by category in library
// order. Within a category items keep collection order. Items with an
// unknown category are listed under model.CategoryOther.
func Export(items []model.VocabularyItem, now time.Time) (Document, error) {
	if len(items) == 0 {
		return Document{}, ErrEmptyLibrary
	}

	grouped := make(map[string][]model.VocabularyItem, len(model.Categories))
	for _, item := range items {
		cat := model.NormalizeCategory(item.Category)
		grouped[cat] = append(grouped[cat], item)
	}

	var b strings.Builder
	b.WriteString(heavyRule + "\n")
	b.WriteString("      " + exportTitle + "      \n")
	b.WriteString(heavyRule + "\n")
	fmt.Fprintf(&b, "导出日期: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "总条目数: %d 条\n\n", len(items))

	for _, cat := range model.Categories {
		catItems := grouped[cat]
		if len(catItems) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n【 %s 】\n", cat)
		b.WriteString(lightRule + "\n")
		for i, item := range catItems {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + heavyRule + "\n")
	b.WriteString(exportFooter + "\n")

	return Document{Name: FileName(now), Body: b.String()}, nil
}

// WriteDocument writes doc into dir through a temp file and rename, and
// returns the final path.
func WriteDocument(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, doc.Name)
	tmpFile, err := os.CreateTemp(dir, "export-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if _, err := writer.WriteString(doc.Body); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
