package analysis_test

import (
	"strings"
	"testing"

	"skillsync-backend/internal/analysis"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPromptBuilder(t *testing.T) {
	Convey("Given the prompt builder", t, func() {
		Convey("When building a skill extraction prompt", func() {
			prompt, err := analysis.BuildSkillExtractionPrompt("I write Go and SQL.")

			Convey("Then it embeds the text and asks for a JSON array", func() {
				So(err, ShouldBeNil)
				So(prompt, ShouldContainSubstring, "I write Go and SQL.")
				So(prompt, ShouldContainSubstring, "JSON array")
			})
		})

		Convey("When the extraction text is blank", func() {
			_, err := analysis.BuildSkillExtractionPrompt("   \n")

			Convey("Then it is rejected", func() {
				So(err, ShouldEqual, analysis.ErrEmptyInput)
			})
		})

		Convey("When building a comparison prompt", func() {
			prompt := analysis.BuildSkillComparisonPrompt([]string{"Python", "SQL"}, []string{"SQL", "Leadership"})

			Convey("Then both lists are serialized as JSON", func() {
				So(prompt, ShouldContainSubstring, `["Python","SQL"]`)
				So(prompt, ShouldContainSubstring, `["SQL","Leadership"]`)
			})

			Convey("And it asks for synonym-aware matching and a job title", func() {
				So(prompt, ShouldContainSubstring, `"Software Developer" and "Software Engineer"`)
				So(prompt, ShouldContainSubstring, "jobTitle")
				So(prompt, ShouldContainSubstring, "physical")
			})
		})

		Convey("When a comparison list is nil", func() {
			prompt := analysis.BuildSkillComparisonPrompt(nil, []string{"SQL"})

			Convey("Then it is rendered as an empty array", func() {
				So(prompt, ShouldContainSubstring, "RESUME SKILLS: []")
			})
		})

		Convey("When building a relevance prompt", func() {
			prompt := analysis.BuildRelevancePrompt("resume body", "job body", []string{"SQL"}, []string{"Leadership"})

			Convey("Then it carries both texts and skill lists and asks for criticism", func() {
				So(prompt, ShouldContainSubstring, "resume body")
				So(prompt, ShouldContainSubstring, "job body")
				So(prompt, ShouldContainSubstring, `["Leadership"]`)
				So(prompt, ShouldContainSubstring, "critical")
			})
		})

		Convey("When building an improvement prompt", func() {
			prompt := analysis.BuildImprovementPrompt("resume body", "job body")

			Convey("Then it asks for exactly four suggestion/topic objects", func() {
				So(prompt, ShouldContainSubstring, "exactly 4 objects")
				So(prompt, ShouldContainSubstring, `"suggestion"`)
				So(prompt, ShouldContainSubstring, `"topic"`)
			})
		})

		Convey("When the input is very long", func() {
			long := strings.Repeat("é", analysis.MaxPromptInputRunes+500)
			prompt, err := analysis.BuildSkillExtractionPrompt(long)

			Convey("Then it is truncated on a rune boundary", func() {
				So(err, ShouldBeNil)
				So(strings.Count(prompt, "é"), ShouldEqual, analysis.MaxPromptInputRunes)
			})
		})
	})
}
