package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Window(t *testing.T) {
	clock := time.Unix(1_700_000_000, 0)
	rl := NewMemoryLimiter(2, time.Minute)
	rl.now = func() time.Time { return clock }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := rl.Allow(ctx, "ip-a")
		require.NoError(t, err)
		require.Equal(t, want, ok, "hit %d", i)
	}
	ok, _ := rl.Allow(ctx, "ip-b")
	require.True(t, ok)

	clock = clock.Add(time.Minute)
	ok, _ = rl.Allow(ctx, "ip-a")
	require.True(t, ok)
}

func TestBearer(t *testing.T) {
	cases := map[string]struct {
		hdr string
		tok string
		ok  bool
	}{
		"plain":      {"Bearer abc", "abc", true},
		"lower":      {"bearer abc", "abc", true},
		"padded":     {"Bearer   abc  ", "abc", true},
		"no scheme":  {"abc", "", false},
		"basic":      {"Basic abc", "", false},
		"only space": {"Bearer    ", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tok, ok := bearer(tc.hdr)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.tok, tok)
		})
	}
}
