package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both repo and commit",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithRepo(ctx, "/src/app")
				ctx = WithCommit(ctx, "abc1234")
				return ctx
			},
			wantKeys: []string{"repo", "commit"},
		},
		{
			name: "only repo",
			setupCtx: func() context.Context {
				return WithRepo(context.Background(), "/src/app")
			},
			wantKeys:  []string{"repo"},
			wantEmpty: []string{"commit"},
		},
		{
			name: "only commit",
			setupCtx: func() context.Context {
				return WithCommit(context.Background(), "abc1234")
			},
			wantKeys:  []string{"commit"},
			wantEmpty: []string{"repo"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"repo", "commit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
