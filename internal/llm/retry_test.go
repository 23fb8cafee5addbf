package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

// fastBackoff keeps the schedule shape but makes waits negligible.
var fastBackoff = BackoffPolicy{
	MaxAttempts:   10,
	InitialDelay:  0,
	RateLimitStep: time.Millisecond,
	TransientWait: time.Millisecond,
}

type fakeCompleter struct {
	provider string
	replies  []string
	errs     []error
	calls    int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	} else if len(f.errs) > 0 {
		err = f.errs[len(f.errs)-1]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	if len(f.replies) > 0 {
		return f.replies[len(f.replies)-1], nil
	}
	return "", nil
}

func (f *fakeCompleter) Provider() string { return f.provider }

func TestBackoffExhaustsOnPersistentRateLimit(t *testing.T) {
	calls := 0
	_, attempts, err := fastBackoff.Do(context.Background(), slog.Default(), func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("429 too many requests")
	})

	require.Error(t, err)
	assert.Equal(t, 10, calls)
	assert.Equal(t, 10, attempts)

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindRateLimited, ce.Kind)
	assert.Equal(t, 10, ce.Attempts)
	assert.Contains(t, err.Error(), "10 attempts")
}

func TestBackoffRecoversAfterTransientErrors(t *testing.T) {
	calls := 0
	out, attempts, err := fastBackoff.Do(context.Background(), slog.Default(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("connection reset")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, attempts)
}

func TestBackoffHonorsContextCancellation(t *testing.T) {
	policy := BackoffPolicy{
		MaxAttempts:   10,
		InitialDelay:  0,
		RateLimitStep: time.Hour,
		TransientWait: time.Hour,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := policy.Do(ctx, slog.Default(), func(ctx context.Context) (string, error) {
			return "", errors.New("rate limit")
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestIsRateLimitedSignals(t *testing.T) {
	assert.True(t, IsRateLimited(errors.New("status 429")))
	assert.True(t, IsRateLimited(errors.New("Too Many Requests")))
	assert.True(t, IsRateLimited(errors.New("openai: rate limit exceeded")))
	assert.True(t, IsRateLimited(&CallError{Kind: KindRateLimited, Attempts: 10, Err: errors.New("x")}))
	assert.False(t, IsRateLimited(errors.New("connection refused")))
	assert.False(t, IsRateLimited(nil))
}

func TestExtractorRateLimitFallsBackToLightMode(t *testing.T) {
	fake := &fakeCompleter{
		provider: "anthropic",
		errs:     []error{errors.New("429 too many requests")},
	}
	ex := NewExtractor(fake, slog.Default()).WithPolicy(fastBackoff)

	res, err := ex.Extract(context.Background(), nmpText, "nmp.txt")
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.Equal(t, 10, res.Attempts)
	assert.Equal(t, 10, fake.calls)
	// The degraded record comes from the pattern extractor and carries
	// the known-substance override plus the provenance tag.
	assert.Equal(t, "amine", res.Record[sds.FieldOdour])
	assert.Equal(t, "nmp.txt", res.Record[sds.FieldSourceFile])
}

func TestExtractorSingleAttemptForOpenAI(t *testing.T) {
	fake := &fakeCompleter{
		provider: "openai",
		errs:     []error{errors.New("boom")},
	}
	ex := NewExtractor(fake, slog.Default()).WithPolicy(fastBackoff)

	_, err := ex.Extract(context.Background(), "text", "f.txt")
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestExtractorReportsAttemptsOnRetriedSuccess(t *testing.T) {
	fake := &fakeCompleter{
		provider: "anthropic",
		errs:     []error{errors.New("429 too many requests"), errors.New("429 too many requests"), nil},
		replies:  []string{`{"Product Name": "Toluene"}`},
	}
	ex := NewExtractor(fake, slog.Default()).WithPolicy(fastBackoff)

	res, err := ex.Extract(context.Background(), "some sds text", "toluene.txt")
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, fake.calls)
	assert.Equal(t, "Toluene", res.Record[sds.FieldProductName])
}

func TestExtractorSuccessfulReply(t *testing.T) {
	fake := &fakeCompleter{
		provider: "openai",
		replies:  []string{`{"Product Name": "Acetone", "CAS Number": "67-64-1"}`},
	}
	ex := NewExtractor(fake, slog.Default()).WithPolicy(fastBackoff)

	res, err := ex.Extract(context.Background(), "some sds text", "acetone.txt")
	require.NoError(t, err)

	assert.False(t, res.Degraded)
	assert.Equal(t, "openai", res.Provider)
	assert.Equal(t, "Acetone", res.Record[sds.FieldProductName])
	assert.Equal(t, "67-64-1", res.Record[sds.FieldCASNumber])
	assert.Contains(t, res.Record, sds.FieldPackingGroup)
}

func TestExtractorUnparseableReply(t *testing.T) {
	fake := &fakeCompleter{
		provider: "openai",
		replies:  []string{"no json here at all"},
	}
	ex := NewExtractor(fake, slog.Default()).WithPolicy(fastBackoff)

	_, err := ex.Extract(context.Background(), "text", "f.txt")
	assert.ErrorIs(t, err, ErrParseFailed)
}

var nmpText = fmt.Sprintf("Product: 1-Methyl-2-pyrrolidone\nCAS-No: %s\nOdour: amine\n", "872-50-4")
