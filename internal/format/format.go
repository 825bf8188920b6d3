// Package format renders pipeline output as Telegram HTML messages.
package format

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/redhorizon/rhnews/internal/news"
)

// Telegram limits: ~4096 for text, 1024 for photo captions. Kept slightly
// under for the text case.
const (
	MaxText    = 3900
	MaxCaption = 1024
)

// Clamp cuts s to at most n runes, marking truncation with an ellipsis.
func Clamp(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func anchor(text, url string) string {
	if text == "" {
		text = "Open"
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(url), html.EscapeString(text))
}

// Hashtags renders a tag list as "#Tag1 #Tag2", dropping empties and spaces.
func Hashtags(tags []string) string {
	var parts []string
	for _, t := range tags {
		if t == "" {
			continue
		}
		parts = append(parts, "#"+strings.ReplaceAll(t, " ", ""))
	}
	return strings.Join(parts, " ")
}

// Breaking renders the urgent single-item post.
func Breaking(it *news.Item, tags []string) string {
	var b strings.Builder
	b.WriteString("🚨 <b>BREAKING</b> — " + html.EscapeString(it.Title))
	if it.Summary != "" {
		b.WriteString("\n\n" + html.EscapeString(Clamp(it.Summary, 420)))
	}
	b.WriteString("\n\n" + anchor("Read more", it.Link))
	b.WriteString("\n" + html.EscapeString(it.SourceName))
	if tag := Hashtags(tags); tag != "" {
		b.WriteString("\n" + tag)
	}
	return Clamp(b.String(), MaxText)
}

// Digest renders the daily digest body: a dated header and one block per item
// with source, clock time, quick-read excerpt and an open link.
func Digest(sel *news.DigestSelection, now time.Time, discussURL string, tags []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚀 <b>Red Horizon Daily Digest — %s</b>", now.UTC().Format("Jan 02, 2006")))

	for _, it := range sel.Items {
		b.WriteString("\n\n• " + anchor(Clamp(it.Title, 120), it.Link))
		b.WriteString(" — <i>" + html.EscapeString(it.SourceName) + "</i>")
		if it.Published != nil {
			b.WriteString(" · 🕒 " + it.Published.UTC().Format("15:04") + " UTC")
		}
		b.WriteString("\n  <i>Quick read:</i> " + html.EscapeString(Clamp(news.Excerpt(it), 180)))
		b.WriteString("\n  " + anchor("➡️ Open", it.Link))
	}

	b.WriteString("\n\nFollow on X: " + anchor("@RedHorizonHub", discussURL))
	if tag := Hashtags(append([]string{"Daily"}, tags...)); tag != "" {
		b.WriteString("\n" + tag)
	}
	return Clamp(b.String(), MaxText)
}

// imageVariant picks the caption flavor from keywords in the item text.
type imageVariant struct {
	emoji string
	label string
	keys  []string
}

var imageVariants = []imageVariant{
	{"🚀", "Launch Flashback", []string{"launch", "liftoff", "falcon", "starship", "booster", "pad", "cape", "vandenberg"}},
	{"🌅", "Martian Horizon", []string{"mars", "curiosity", "perseverance", "hirise", "viking", "insight", "gale", "jezero"}},
	{"🌌", "Cosmic View", []string{"jwst", "webb", "hubble", "eso", "galaxy", "nebula", "cluster", "exoplanet"}},
	{"🛠", "Starbase Progress", []string{"starbase", "boca", "mechazilla", "olm", "olp", "raptor", "stack", "static fire", "wdr"}},
}

var defaultVariant = imageVariant{"📷", "Red Horizon Daily Image", nil}

func chooseVariant(text string) imageVariant {
	low := strings.ToLower(text)
	for _, v := range imageVariants {
		for _, k := range v.keys {
			if strings.Contains(low, k) {
				return v
			}
		}
	}
	return defaultVariant
}

// ImageCaption renders the photo caption for the daily image post.
func ImageCaption(it *news.Item, tags []string) string {
	v := chooseVariant(it.Title + " " + it.SourceName + " " + it.ImageURL)

	title := it.Title
	if title == "" {
		title = "Space image"
	}

	lines := []string{
		fmt.Sprintf("%s <b>%s</b>", v.emoji, v.label),
		html.EscapeString(title),
	}
	if it.SourceName != "" {
		lines = append(lines, "<i>"+html.EscapeString(it.SourceName)+"</i>")
	}
	if it.Published != nil {
		lines = append(lines, "<i>"+it.Published.UTC().Format("Jan 02, 2006")+"</i>")
	}

	base := []string{"Space", "Mars", "RedHorizon"}
	for _, t := range tags {
		seen := false
		for _, b := range base {
			if b == t {
				seen = true
				break
			}
		}
		if !seen {
			base = append(base, t)
		}
	}
	lines = append(lines, Hashtags(base))

	return Clamp(strings.Join(lines, "\n"), MaxCaption)
}

// Welcome renders the static channel welcome message.
func Welcome(discussURL string) string {
	lines := []string{
		"👋 <b>Welcome to Red Horizon</b>",
		"Your hub for SpaceX, Starship, and Mars exploration — plus the science, stories, and imagination that bring space closer.",
		"Here's what you'll find:\n• 🚨 Timely <i>breaking news</i> from trusted sources\n• 📰 A <b>Daily Digest</b> of the 5 biggest stories\n• 📸 Stunning <b>space images</b> posted throughout the day",
		"Follow on X: " + anchor("@RedHorizonHub", discussURL),
		Hashtags([]string{"Space", "Mars", "Starship", "RedHorizon"}),
	}
	return Clamp(strings.Join(lines, "\n\n"), MaxText)
}
