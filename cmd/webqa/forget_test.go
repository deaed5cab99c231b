package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/webqa"
	main "github.com/fwojciec/webqa/cmd/webqa"
	"github.com/fwojciec/webqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgetCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes answer by normalized question", func(t *testing.T) {
		t.Parallel()

		var deleted string
		answers := &mock.AnswerCache{
			DeleteAnswerFn: func(_ context.Context, queryKey string) error {
				deleted = queryKey
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Answers: answers,
		}

		err := (&main.ForgetCmd{Question: "  How do I MERGE two DataFrames?  "}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, webqa.NormalizeQuery("how do i merge two dataframes?"), deleted)
		assert.Contains(t, stdout.String(), "Forgot answer")
	})

	t.Run("reports missing answer", func(t *testing.T) {
		t.Parallel()

		answers := &mock.AnswerCache{
			DeleteAnswerFn: func(_ context.Context, queryKey string) error {
				return webqa.Errorf(webqa.ENOTFOUND, "answer not found")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Answers: answers,
		}

		err := (&main.ForgetCmd{Question: "unknown"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, webqa.ENOTFOUND, webqa.ErrorCode(err))
		assert.Contains(t, stderr.String(), "webqa history")
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		err := (&main.ForgetCmd{Question: "   "}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, webqa.EINVALID, webqa.ErrorCode(err))
	})
}
