package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/connorodea/leonardo-cli/internal/history"
	"github.com/connorodea/leonardo-cli/internal/leonardo"
	"github.com/connorodea/leonardo-cli/internal/poller"
)

const usageBarWidth = 50

// statusLineWidth is wide enough to cover every poller message so the
// carriage return fully overwrites the previous draw
const statusLineWidth = 70

// progressPrinter returns a sink that redraws one status line in place
func progressPrinter(w io.Writer) poller.ProgressFunc {
	return func(elapsed time.Duration, message string) {
		fmt.Fprintf(w, "\r%-*s", statusLineWidth, message)
	}
}

// clearProgress wipes the in-place status line
func clearProgress(w io.Writer) {
	fmt.Fprintf(w, "\r%-*s\r", statusLineWidth, "")
}

// maskAPIKey hides the middle of a key for display
func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-8:]
	}
	return "********"
}

// truncate shortens long prompts for table cells
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// usageBar renders token consumption as a fixed width bar
func usageBar(used, total int) string {
	if total <= 0 {
		return ""
	}

	filled := used * usageBarWidth / total
	if filled < 0 {
		filled = 0
	}
	if filled > usageBarWidth {
		filled = usageBarWidth
	}

	percent := float64(used) / float64(total) * 100
	return fmt.Sprintf("[%s%s] %.1f%%",
		strings.Repeat("#", filled),
		strings.Repeat(" ", usageBarWidth-filled),
		percent,
	)
}

func renderUserInfo(w io.Writer, info *leonardo.UserInfo) {
	fmt.Fprintln(w, "User Information")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "%-20s %s\n", "User ID:", info.User.ID)
	fmt.Fprintf(w, "%-20s %s\n", "Username:", info.User.Username)
	fmt.Fprintf(w, "%-20s %s\n", "Email:", info.User.Email)

	if sub := info.Subscription; sub != nil {
		fmt.Fprintf(w, "%-20s %s\n", "Subscription Plan:", sub.Plan)
		fmt.Fprintf(w, "%-20s %d\n", "Tokens Remaining:", sub.TokensRemaining)
		fmt.Fprintf(w, "%-20s %d\n", "Total Tokens:", sub.TotalTokens)
		fmt.Fprintf(w, "%-20s %d\n", "Tokens Used:", sub.TokensUsed)
		fmt.Fprintf(w, "%-20s %s\n", "Next Renewal:", sub.NextRenewalDate)
	}
}

func renderUsage(w io.Writer, sub *leonardo.Subscription) {
	fmt.Fprintln(w, "API Token Usage")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "%-20s %s\n", "Plan:", sub.Plan)
	fmt.Fprintf(w, "%-20s %d\n", "Tokens Remaining:", sub.TokensRemaining)
	fmt.Fprintf(w, "%-20s %d\n", "Total Tokens:", sub.TotalTokens)
	fmt.Fprintf(w, "%-20s %d\n", "Tokens Used:", sub.TokensUsed)
	fmt.Fprintf(w, "%-20s %s\n", "Next Renewal:", sub.NextRenewalDate)

	if bar := usageBar(sub.TokensUsed, sub.TotalTokens); bar != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Token Usage:")
		fmt.Fprintln(w, bar)
	}
}

func renderModels(w io.Writer, models []leonardo.Model) {
	if len(models) == 0 {
		fmt.Fprintln(w, "No models available")
		return
	}

	fmt.Fprintf(w, "%-40s %-30s %s\n", "ID", "NAME", "DESCRIPTION")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, model := range models {
		fmt.Fprintf(w, "%-40s %-30s %s\n", model.ID, truncate(model.Name, 28), truncate(model.Description, 40))
	}
}

func renderCustomModels(w io.Writer, models []leonardo.CustomModel) {
	if len(models) == 0 {
		fmt.Fprintln(w, "No custom models")
		return
	}

	fmt.Fprintf(w, "%-40s %-30s %s\n", "ID", "NAME", "STATUS")
	fmt.Fprintln(w, strings.Repeat("-", 85))
	for _, model := range models {
		fmt.Fprintf(w, "%-40s %-30s %s\n", model.ID, truncate(model.Name, 28), model.Status)
	}
}

func renderHistory(w io.Writer, entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No jobs recorded")
		return
	}

	fmt.Fprintf(w, "%-38s %-11s %-9s %-20s %s\n", "ID", "KIND", "STATUS", "CREATED_AT", "PROMPT")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, entry := range entries {
		fmt.Fprintf(w, "%-38s %-11s %-9s %-20s %s\n",
			entry.ID,
			entry.Kind,
			entry.Status,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			truncate(entry.Prompt, 40),
		)
	}
}
