package exporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"diary-export/lib/diary"
	"diary-export/lib/testutil"
	"diary-export/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var standardHeader = []string{
	"Foods", "Calories", "Carbs", "Fat", "Protein", "Sugars", "Fiber", "Cholest", "Sodium",
}

// fakeSource renders one section per requested day, each with a single
// banana eaten at breakfast.
type fakeSource struct {
	requests []DateRange
	header   func(from time.Time) []string
	err      error
}

func (s *fakeSource) DiaryPage(ctx context.Context, user string, from, to time.Time) (diary.Page, error) {
	s.requests = append(s.requests, DateRange{From: from, To: to})
	if s.err != nil {
		return diary.Page{}, s.err
	}

	header := standardHeader
	if s.header != nil {
		header = s.header(from)
	}

	var page diary.Page
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		page.Headings = append(page.Headings, day.Format("January 2, 2006"))
		page.Tables = append(page.Tables, diary.Table{
			Header: header,
			Rows: []diary.Row{
				diary.MarkerRow("Breakfast"),
				diary.DataRow("Banana, medium", "105", "27", "0.4g", "1.3", "14", "3.1", "0mg", "1mg"),
				diary.DataRow("oops"),
			},
		})
	}
	return page, nil
}

func TestChunks(t *testing.T) {
	testCases := []struct {
		start  time.Time
		end    time.Time
		expect []DateRange
	}{
		{
			start:  date(2024, 1, 5),
			end:    date(2024, 1, 5),
			expect: []DateRange{{From: date(2024, 1, 5), To: date(2024, 1, 5)}},
		},
		{
			start:  date(2023, 1, 1),
			end:    date(2023, 12, 31),
			expect: []DateRange{{From: date(2023, 1, 1), To: date(2023, 12, 31)}},
		},
		{
			start: date(2022, 3, 10),
			end:   date(2024, 6, 1),
			expect: []DateRange{
				{From: date(2022, 3, 10), To: date(2023, 3, 9)},
				{From: date(2023, 3, 10), To: date(2024, 3, 9)},
				{From: date(2024, 3, 10), To: date(2024, 6, 1)},
			},
		},
		{
			start:  date(2024, 2, 1),
			end:    date(2024, 1, 1),
			expect: nil,
		},
	}

	for _, test := range testCases {
		diff := cmp.Diff(test.expect, Chunks(test.start, test.end))
		if diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestConfigNormalize(t *testing.T) {
	_, err := Config{OutputPath: "out.csv"}.Normalize()
	require.Equal(t, ErrNoAnalyzedUser, err)

	_, err = Config{AnalyzedUser: "alice"}.Normalize()
	require.Equal(t, ErrNoOutputPath, err)

	_, err = Config{
		AnalyzedUser: "alice",
		OutputPath:   "out.csv",
		Start:        date(2024, 2, 1),
		End:          date(2024, 1, 1),
	}.Normalize()
	require.NotNil(t, err)

	cfg, err := Config{AnalyzedUser: "alice", OutputPath: "out.csv"}.Normalize()
	require.Nil(t, err)
	require.Equal(t, timezone.Today(), cfg.Start)
	require.Equal(t, timezone.Today(), cfg.End)
}

func TestRun(t *testing.T) {
	res, cleanup := testutil.SetupPackage(t, testutil.PackageParams{Name: "exporter"})
	defer cleanup()

	out := res.Output("diary.csv")
	src := &fakeSource{}

	result, err := Run(context.Background(), Config{
		AnalyzedUser: "alice",
		Start:        date(2024, 1, 5),
		End:          date(2024, 1, 6),
		OutputPath:   out,
	}, src)
	require.Nil(t, err)
	require.Equal(t, 2, result.Records)
	require.Equal(t, 2, result.Skipped)
	require.Equal(t, 2, result.Sections)
	require.NotEmpty(t, result.RunId)
	require.Equal(t, []DateRange{{From: date(2024, 1, 5), To: date(2024, 1, 6)}}, src.requests)

	contents, err := os.ReadFile(out)
	require.Nil(t, err)
	require.Equal(t,
		"user,date,meal,food,calories,carbs,fat,protein,sugar,fiber,cholesterol,sodium\n"+
			"alice,2024-01-05,Breakfast,\"Banana, medium\",105,27,0.4,1.3,14,3.1,0,1\n"+
			"alice,2024-01-06,Breakfast,\"Banana, medium\",105,27,0.4,1.3,14,3.1,0,1\n",
		string(contents),
	)
}

func TestRunMultipleChunks(t *testing.T) {
	out := filepath.Join(t.TempDir(), "diary.csv")
	src := &fakeSource{}

	result, err := Run(context.Background(), Config{
		AnalyzedUser: "alice",
		Start:        date(2023, 1, 1),
		End:          date(2024, 1, 2),
		OutputPath:   out,
	}, src)
	require.Nil(t, err)
	require.Len(t, src.requests, 2)
	// 365 days of 2023 plus two days of 2024, no day counted twice
	require.Equal(t, 367, result.Records)
}

func TestRunNoSections(t *testing.T) {
	out := filepath.Join(t.TempDir(), "diary.csv")
	src := emptySource{}

	result, err := Run(context.Background(), Config{
		AnalyzedUser: "alice",
		OutputPath:   out,
	}, src)
	require.Nil(t, err)
	require.Equal(t, 0, result.Records)

	contents, err := os.ReadFile(out)
	require.Nil(t, err)
	require.Equal(t, "user,date,meal,food,calories,carbs,fat,protein,sugar,fiber,cholesterol,sodium\n", string(contents))
}

type emptySource struct{}

func (emptySource) DiaryPage(ctx context.Context, user string, from, to time.Time) (diary.Page, error) {
	return diary.Page{}, nil
}

func TestRunInconsistentSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "diary.csv")
	src := &fakeSource{
		header: func(from time.Time) []string {
			if from.Year() == 2024 {
				return append(standardHeader[:len(standardHeader):len(standardHeader)], "Potassium")
			}
			return standardHeader
		},
	}

	_, err := Run(context.Background(), Config{
		AnalyzedUser: "alice",
		Start:        date(2023, 6, 1),
		End:          date(2024, 6, 10),
		OutputPath:   out,
	}, src)
	var schemaErr *diary.SchemaError
	require.True(t, errors.As(err, &schemaErr), err)

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestRunStructuralError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "diary.csv")
	err := os.WriteFile(out, []byte("previous export\n"), 0644)
	require.Nil(t, err)

	_, err = Run(context.Background(), Config{
		AnalyzedUser: "alice",
		OutputPath:   out,
	}, mismatchedSource{})
	var mismatch *diary.SegmentMismatchError
	require.True(t, errors.As(err, &mismatch), err)

	contents, err := os.ReadFile(out)
	require.Nil(t, err)
	require.Equal(t, "previous export\n", string(contents))
}

type mismatchedSource struct{}

func (mismatchedSource) DiaryPage(ctx context.Context, user string, from, to time.Time) (diary.Page, error) {
	return diary.Page{
		Headings: []string{"January 5, 2024", "January 6, 2024"},
		Tables:   []diary.Table{{Header: standardHeader}},
	}, nil
}

func TestRunSourceError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "diary.csv")
	sourceErr := fmt.Errorf("connection reset")

	_, err := Run(context.Background(), Config{
		AnalyzedUser: "alice",
		OutputPath:   out,
	}, &fakeSource{err: sourceErr})
	require.True(t, errors.Is(err, sourceErr))

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestHTMLFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	err := os.WriteFile(path, []byte(`
<h2 id="date">January 5, 2024</h2>
<table id="food">
	<thead><tr><td>Foods</td><td>Calories</td></tr></thead>
	<tbody>
		<tr class="title"><td>Snacks</td></tr>
		<tr><td>Apple, 1 medium</td><td>95</td></tr>
	</tbody>
</table>`), 0644)
	require.Nil(t, err)

	out := filepath.Join(t.TempDir(), "diary.csv")
	result, err := Run(context.Background(), Config{
		AnalyzedUser: "alice",
		OutputPath:   out,
	}, HTMLFileSource{Path: path})
	require.Nil(t, err)
	require.Equal(t, diary.Schema{"user", "date", "meal", "food", "calories"}, result.Schema)

	contents, err := os.ReadFile(out)
	require.Nil(t, err)
	require.Equal(t, "user,date,meal,food,calories\nalice,2024-01-05,Snacks,\"Apple, 1 medium\",95\n", string(contents))

	_, err = HTMLFileSource{Path: filepath.Join(t.TempDir(), "missing.html")}.
		DiaryPage(context.Background(), "alice", date(2024, 1, 5), date(2024, 1, 5))
	require.True(t, os.IsNotExist(err))
}
