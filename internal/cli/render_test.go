package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connorodea/leonardo-cli/internal/history"
	"github.com/connorodea/leonardo-cli/internal/leonardo"
)

func TestUsageBar(t *testing.T) {
	tests := []struct {
		name       string
		used       int
		total      int
		wantFilled int
		wantLabel  string
	}{
		{
			name:       "empty",
			used:       0,
			total:      100,
			wantFilled: 0,
			wantLabel:  "0.0%",
		},
		{
			name:       "half",
			used:       50,
			total:      100,
			wantFilled: 25,
			wantLabel:  "50.0%",
		},
		{
			name:       "full",
			used:       100,
			total:      100,
			wantFilled: 50,
			wantLabel:  "100.0%",
		},
		{
			name:       "truncates fractional cells",
			used:       33,
			total:      100,
			wantFilled: 16,
			wantLabel:  "33.0%",
		},
		{
			name:       "overconsumption clamps the bar",
			used:       150,
			total:      100,
			wantFilled: 50,
			wantLabel:  "150.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := fmt.Sprintf("[%s%s] %s",
				strings.Repeat("#", tt.wantFilled),
				strings.Repeat(" ", usageBarWidth-tt.wantFilled),
				tt.wantLabel,
			)
			assert.Equal(t, want, usageBar(tt.used, tt.total))
		})
	}
}

func TestUsageBar_NoTotal(t *testing.T) {
	assert.Empty(t, usageBar(10, 0))
	assert.Empty(t, usageBar(10, -1))
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "long key keeps edges",
			key:  "abcdefgh0123456789ijklmnop",
			want: "abcdefgh...ijklmnop",
		},
		{
			name: "short key fully masked",
			key:  "tiny",
			want: "********",
		},
		{
			name: "empty key fully masked",
			key:  "",
			want: "********",
		},
		{
			name: "boundary length fully masked",
			key:  "0123456789abcdef",
			want: "********",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.key))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}

func TestProgressPrinter(t *testing.T) {
	output := &bytes.Buffer{}
	progress := progressPrinter(output)

	progress(2*time.Second, "Waiting for generation... (2s)")

	got := output.String()
	require.True(t, strings.HasPrefix(got, "\r"))
	assert.Contains(t, got, "Waiting for generation... (2s)")
	// one carriage return plus the padded line
	assert.Len(t, got, 1+statusLineWidth)
}

func TestClearProgress(t *testing.T) {
	output := &bytes.Buffer{}
	clearProgress(output)

	assert.Equal(t, "\r"+strings.Repeat(" ", statusLineWidth)+"\r", output.String())
}

func TestRenderUserInfo(t *testing.T) {
	output := &bytes.Buffer{}
	renderUserInfo(output, &leonardo.UserInfo{
		User: leonardo.User{
			ID:       "user-1",
			Username: "ada",
			Email:    "ada@example.com",
		},
		Subscription: &leonardo.Subscription{
			Plan:            "Artisan",
			TokensRemaining: 8500,
			TotalTokens:     25500,
			TokensUsed:      17000,
			NextRenewalDate: "2026-09-01",
		},
	})

	got := output.String()
	assert.Contains(t, got, "User Information")
	assert.Contains(t, got, "user-1")
	assert.Contains(t, got, "ada@example.com")
	assert.Contains(t, got, "Artisan")
	assert.Contains(t, got, "8500")
}

func TestRenderUserInfo_NoSubscription(t *testing.T) {
	output := &bytes.Buffer{}
	renderUserInfo(output, &leonardo.UserInfo{
		User: leonardo.User{ID: "user-1", Username: "ada"},
	})

	got := output.String()
	assert.Contains(t, got, "user-1")
	assert.NotContains(t, got, "Subscription Plan")
}

func TestRenderUsage(t *testing.T) {
	output := &bytes.Buffer{}
	renderUsage(output, &leonardo.Subscription{
		Plan:            "Apprentice",
		TokensRemaining: 3000,
		TotalTokens:     8500,
		TokensUsed:      5500,
		NextRenewalDate: "2026-09-15",
	})

	got := output.String()
	assert.Contains(t, got, "API Token Usage")
	assert.Contains(t, got, "Apprentice")
	assert.Contains(t, got, "Token Usage:")
	assert.Contains(t, got, "64.7%")
}

func TestRenderModels(t *testing.T) {
	output := &bytes.Buffer{}
	renderModels(output, []leonardo.Model{
		{ID: "model-1", Name: "Leonardo Diffusion XL", Description: "Alchemy-enabled general purpose model"},
	})

	got := output.String()
	assert.Contains(t, got, "model-1")
	assert.Contains(t, got, "Leonardo Diffusion XL")
}

func TestRenderModels_Empty(t *testing.T) {
	output := &bytes.Buffer{}
	renderModels(output, nil)
	assert.Contains(t, output.String(), "No models available")
}

func TestRenderHistory(t *testing.T) {
	output := &bytes.Buffer{}
	renderHistory(output, []history.Entry{
		{
			ID:        "gen-1",
			Kind:      history.KindGeneration,
			Status:    history.StatusComplete,
			Prompt:    "a fox in the snow",
			CreatedAt: time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
		},
	})

	got := output.String()
	assert.Contains(t, got, "gen-1")
	assert.Contains(t, got, "generation")
	assert.Contains(t, got, "2026-08-20 10:30:00")
	assert.Contains(t, got, "a fox in the snow")
}

func TestRenderHistory_Empty(t *testing.T) {
	output := &bytes.Buffer{}
	renderHistory(output, nil)
	assert.Contains(t, output.String(), "No jobs recorded")
}
