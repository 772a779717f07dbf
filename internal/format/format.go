// Package format renders contest data into the HTML-formatted texts
// the bot sends. All functions are pure: same input, same output.
package format

import (
	"fmt"
	"strings"

	"github.com/uthkarsh2006/contestbot/internal/domain"
)

const (
	// NoContestsText is the fixed empty-state daily message.
	NoContestsText = "❌ No contests today. Enjoy the break! 💪"
	// NoContestsListedText is the empty-state for the full listing.
	NoContestsListedText = "❌ No contests available to show."

	encouragementText = "Good luck, and happy coding! 🚀"
	reminderHeader    = "⏳ Starts in 15 minutes!"
)

// Daily renders the morning broadcast for today's contests, in the
// order they come from the feed.
func Daily(contests []domain.Contest) string {
	if len(contests) == 0 {
		return NoContestsText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏆 Today's Contests (%d)\n", len(contests))
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n\n")
	for i, c := range contests {
		writeEntry(&b, i+1, c)
	}
	b.WriteString(encouragementText)
	return b.String()
}

// Listing renders every contest in the feed, today's or not. Sent to
// newcomers on request via /contests.
func Listing(contests []domain.Contest) string {
	if len(contests) == 0 {
		return NoContestsListedText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 All Contests (%d)\n", len(contests))
	b.WriteString(strings.Repeat("=", 40))
	b.WriteString("\n\n")
	for i, c := range contests {
		writeEntry(&b, i+1, c)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Reminder renders the single-contest message sent shortly before the
// contest starts.
func Reminder(c domain.Contest) string {
	var b strings.Builder
	b.WriteString(reminderHeader)
	b.WriteString("\n\n")
	name := c.Name
	if name == "" {
		name = "Unnamed"
	}
	fmt.Fprintf(&b, "<b>%s</b>\n", name)
	writeFields(&b, c)
	return strings.TrimRight(b.String(), "\n")
}

// Welcome greets a newly registered subscriber by name.
func Welcome(name string) string {
	if name == "" {
		return "👋 Hello! You are subscribed to contest updates."
	}
	return fmt.Sprintf("👋 Hello %s! You are subscribed to contest updates.", name)
}

func writeEntry(b *strings.Builder, n int, c domain.Contest) {
	name := c.Name
	if name == "" {
		name = "Unnamed"
	}
	fmt.Fprintf(b, "<b>%d. %s</b>\n", n, name)
	date := c.Date
	if date == "" {
		date = "Unknown"
	}
	fmt.Fprintf(b, "📅 %s\n", date)
	writeFields(b, c)
	b.WriteString("\n")
}

// writeFields appends the optional time/platform/link lines shared by
// every message kind.
func writeFields(b *strings.Builder, c domain.Contest) {
	if c.StartTime != "" {
		b.WriteString("⏰ " + c.StartTime)
		if c.EndTime != "" {
			b.WriteString(" - " + c.EndTime)
		}
		b.WriteString("\n")
	}
	if c.Platform != "" {
		fmt.Fprintf(b, "📌 %s\n", c.Platform)
	}
	if c.URL != "" {
		fmt.Fprintf(b, "🔗 <a href='%s'>Link</a>\n", c.URL)
	}
}
