package classifier

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/pagepulse/internal/model"
)

// BuildPrompt renders the single instruction sent with a payload. The
// snippet window follows cfg.Limits and the entry count cfg.Entries.
func BuildPrompt(payload string, mode model.MatchMode, cfg Config) string {
	cfg = cfg.WithDefaults()
	labels := cfg.Labels

	var sb strings.Builder
	sb.WriteString("Analyze the emotional tone of the following web page content.\n\n")

	sb.WriteString("Split the content into meaningful snippets and assign exactly one emotion to each snippet that expresses a clear emotional tone.\n\n")

	sb.WriteString("Available emotions:\n")
	for _, l := range labels.Labels() {
		fmt.Fprintf(&sb, "- %s: %s\n", l.Name, l.Desc)
	}
	sb.WriteString("\n")

	if mode == model.MatchID {
		sb.WriteString(`Each line of the content starts with an element marker such as [emotion-p-3].
Return ONLY a valid JSON array, one entry per element you classify:
[
  {"id": "emotion-p-3", "emotion": "happy"},
  {"id": "emotion-li-7", "emotion": "worried"}
]

Rules:
- Copy the element id exactly as it appears inside the brackets, without the brackets
- Classify each element at most once
`)
	} else {
		sb.WriteString(`Return ONLY a valid JSON array:
[
  {"text": "exact text from the content", "emotion": "happy"},
  {"text": "another exact snippet", "emotion": "worried"}
]

Rules:
- Copy each snippet EXACTLY as it appears in the content; never rephrase or merge lines
`)
		fmt.Fprintf(&sb, "- Each snippet must be between %d and %d characters long\n",
			cfg.Limits.MinSpanLen, cfg.Limits.MaxSpanLen)
	}
	sb.WriteString(`- Skip navigation menus, boilerplate and technical content
- Use only the emotions listed above
`)
	fmt.Fprintf(&sb, "- Return at most %d entries\n\nContent:\n", cfg.Entries)
	sb.WriteString(payload)
	return sb.String()
}
