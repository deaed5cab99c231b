package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/webqa"
	main "github.com/fwojciec/webqa/cmd/webqa"
	"github.com/fwojciec/webqa/fs"
	"github.com/fwojciec/webqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnswers() []*webqa.Answer {
	return []*webqa.Answer{
		{
			ID:         "a-2",
			QueryKey:   "how tall is tokyo tower",
			Question:   "How tall is Tokyo Tower?",
			Text:       "333 metres.",
			SourceURL:  "https://example.com/tokyo-tower",
			Confidence: 0.9,
			CreatedAt:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:         "a-1",
			QueryKey:   "how do i merge two dataframes",
			Question:   "How do I merge two DataFrames?",
			Text:       "Use pd.merge.",
			SourceURL:  "https://pandas.pydata.org/docs/user_guide/merging.html",
			Confidence: 0.8,
			CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists answers with question and source", func(t *testing.T) {
		t.Parallel()

		var got webqa.AnswerFilter
		answers := &mock.AnswerCache{
			FindAnswersFn: func(_ context.Context, filter webqa.AnswerFilter) ([]*webqa.Answer, error) {
				got = filter
				return testAnswers(), nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Answers: answers,
		}

		err := (&main.HistoryCmd{Limit: 5, All: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 5, got.Limit)
		assert.True(t, got.IncludeExpired)

		output := stdout.String()
		assert.Contains(t, output, "How tall is Tokyo Tower?")
		assert.Contains(t, output, "https://pandas.pydata.org/docs/user_guide/merging.html")
	})

	t.Run("shows helpful message when empty", func(t *testing.T) {
		t.Parallel()

		answers := &mock.AnswerCache{
			FindAnswersFn: func(_ context.Context, _ webqa.AnswerFilter) ([]*webqa.Answer, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Answers: answers,
		}

		err := (&main.HistoryCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No cached answers")
	})

	t.Run("returns error when lookup fails", func(t *testing.T) {
		t.Parallel()

		answers := &mock.AnswerCache{
			FindAnswersFn: func(_ context.Context, _ webqa.AnswerFilter) ([]*webqa.Answer, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Answers: answers,
		}

		err := (&main.HistoryCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("exports answers as markdown files", func(t *testing.T) {
		t.Parallel()

		answers := &mock.AnswerCache{
			FindAnswersFn: func(_ context.Context, _ webqa.AnswerFilter) ([]*webqa.Answer, error) {
				return testAnswers(), nil
			},
		}

		dir := filepath.Join(t.TempDir(), "export")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Answers: answers,
			Export: func(dir string) main.AnswerExporter {
				return fs.NewExporter(dir)
			},
		}

		err := (&main.HistoryCmd{Export: dir}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Exported 2 answers")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("aborts export when an answer cannot be saved", func(t *testing.T) {
		t.Parallel()

		broken := testAnswers()
		broken[1].Text = ""
		answers := &mock.AnswerCache{
			FindAnswersFn: func(_ context.Context, _ webqa.AnswerFilter) ([]*webqa.Answer, error) {
				return broken, nil
			},
		}

		dir := filepath.Join(t.TempDir(), "export")
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Answers: answers,
			Export: func(dir string) main.AnswerExporter {
				return fs.NewExporter(dir)
			},
		}

		err := (&main.HistoryCmd{Export: dir}).Run(deps)

		require.Error(t, err)
		assert.NoDirExists(t, dir)
		assert.NoDirExists(t, dir+".tmp")
	})
}
