package analysis_test

import (
	"testing"

	"skillsync-backend/internal/analysis"

	. "github.com/smartystreets/goconvey/convey"
)

func TestResourceCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		catalog := analysis.NewResourceCatalog("")

		Convey("Search links escape the topic", func() {
			So(catalog.SearchURL("Data Visualization"), ShouldEqual, "https://www.coursera.org/search?query=Data+Visualization")
		})

		Convey("Suggestions become improvements with links and search terms", func() {
			got := catalog.Improvements([]analysis.Suggestion{{Suggestion: "Learn joins.", Topic: "SQL"}})
			So(got, ShouldHaveLength, 1)
			So(got[0].Suggestion, ShouldEqual, "Learn joins.")
			So(got[0].SearchTerm, ShouldEqual, "SQL")
			So(got[0].ResourceURL, ShouldEqual, "https://www.coursera.org/search?query=SQL")
		})

		Convey("Curated skills are found case-insensitively", func() {
			res := catalog.Lookup("sql")
			So(res.Resources, ShouldHaveLength, 3)
			So(res.Resources[0].Provider, ShouldEqual, "Coursera")
			So(res.SearchURL, ShouldEqual, "https://www.coursera.org/search?query=sql")
		})

		Convey("Unknown skills still get a search link", func() {
			res := catalog.Lookup("Rust")
			So(res.Resources, ShouldNotBeNil)
			So(res.Resources, ShouldBeEmpty)
			So(res.SearchURL, ShouldEqual, "https://www.coursera.org/search?query=Rust")
		})
	})

	Convey("Given a custom search endpoint", t, func() {
		catalog := analysis.NewResourceCatalog("https://learn.example.com/?q=")
		So(catalog.SearchURL("Go"), ShouldEqual, "https://learn.example.com/?q=Go")
	})
}
