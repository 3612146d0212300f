package vacancy

import (
	"fmt"
	"strings"

	"github.com/anvarov/ishbot/internal/database"
)

// Illustrative images attached to channel publications, keyed by category.
var categoryImages = map[string]string{
	database.CategoryProgramming: "https://i.postimg.cc/kG1DpmWQ/programming.png",
	database.CategoryDesign:      "https://i.postimg.cc/kM0WQQFv/design.png",
	database.CategorySMM:         "https://i.postimg.cc/3JHyRBP2/smm.png",
}

const defaultImage = "https://i.postimg.cc/kG1DpmWQ/default.png"

// FilledOverlay is the notice inserted into a publication caption once the
// submitter reports the position as filled.
const FilledOverlay = "⚠️ POSITION FILLED ⚠️"

// FormatDraft renders the intake fields as the fixed-order human-readable
// block shared by the confirmation preview, moderator review messages, and
// channel publications.
func FormatDraft(d Draft) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏢 Company: %s\n", d.Company)
	fmt.Fprintf(&b, "📚 Technology: %s\n", d.Technology)
	fmt.Fprintf(&b, "📮 Telegram: %s\n", d.ContactTelegram)
	fmt.Fprintf(&b, "🌐 Location: %s\n", d.Location)
	fmt.Fprintf(&b, "✍️ Responsible: %s\n", d.ResponsiblePerson)
	fmt.Fprintf(&b, "💰 Salary: %s\n", d.Salary)
	fmt.Fprintf(&b, "‼️ Additional: %s", d.AdditionalInfo)
	return b.String()
}

// FormatVacancy renders a stored vacancy with the same block as FormatDraft.
func FormatVacancy(v *database.Vacancy) string {
	return FormatDraft(Draft{
		Category:          v.Category,
		Company:           v.Company,
		Technology:        v.Technology,
		ContactTelegram:   v.ContactTelegram,
		Location:          v.Location,
		ResponsiblePerson: v.ResponsiblePerson,
		Salary:            v.Salary,
		AdditionalInfo:    v.AdditionalInfo,
	})
}

// Hashtags derives the publication hashtag line from the company,
// technology, and location fields, with whitespace replaced by underscores.
func Hashtags(v *database.Vacancy) string {
	tags := []string{
		"#vacancy",
		"#" + hashtagToken(v.Company),
		"#" + hashtagToken(v.Technology),
		"#" + hashtagToken(v.Location),
	}
	return strings.Join(tags, " ")
}

func hashtagToken(s string) string {
	return strings.Join(strings.Fields(s), "_")
}

// PublicationCaption is the full caption for a channel post: the formatted
// block plus the hashtag line.
func PublicationCaption(v *database.Vacancy) string {
	return FormatVacancy(v) + "\n\n" + Hashtags(v)
}

// FilledCaption is the publication caption with the filled notice overlaid.
func FilledCaption(v *database.Vacancy) string {
	return FormatVacancy(v) + "\n\n" + FilledOverlay + "\n\n" + Hashtags(v)
}

// ImageURL selects the illustrative image for a category, falling back to
// the default image for unrecognized categories.
func ImageURL(category string) string {
	if url, ok := categoryImages[category]; ok {
		return url
	}
	return defaultImage
}
