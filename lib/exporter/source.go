package exporter

import (
	"context"
	"os"
	"time"

	"diary-export/lib/diary"
	"diary-export/lib/scrapers/myfitnesspal"
)

// PageSource renders the diary report of a user for an inclusive date
// range.
type PageSource interface {
	DiaryPage(ctx context.Context, user string, from, to time.Time) (diary.Page, error)
}

var _ PageSource = (*myfitnesspal.Client)(nil)

// HTMLFileSource serves a printable diary report saved to disk. It
// returns the same page for every range.
type HTMLFileSource struct {
	Path      string
	Selectors myfitnesspal.Selectors
}

func (s HTMLFileSource) DiaryPage(ctx context.Context, user string, from, to time.Time) (diary.Page, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return diary.Page{}, err
	}
	defer f.Close()
	return myfitnesspal.ParsePrintableDiary(ctx, f, s.Selectors)
}
