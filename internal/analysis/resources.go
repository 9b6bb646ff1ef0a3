package analysis

import (
	"net/url"
	"strings"

	"skillsync-backend/internal/domain"
)

// DefaultSearchURL is the catalog search endpoint topics are appended to.
const DefaultSearchURL = "https://www.coursera.org/search?query="

var curatedResources = map[string][]domain.LearningResource{
	"sql": {
		{Title: "SQL for Beginners", Provider: "Coursera", Type: "Course", URL: "https://www.coursera.org/search?query=SQL%20for%20Beginners"},
		{Title: "Advanced SQL Queries", Provider: "Udemy", Type: "Course", URL: "https://www.udemy.com/courses/search/?q=Advanced%20SQL%20Queries"},
		{Title: "W3Schools SQL Tutorial", Provider: "W3Schools", Type: "Article", URL: "https://www.w3schools.com/sql/"},
	},
	"data visualization": {
		{Title: "Data Visualization with Tableau", Provider: "Coursera", Type: "Course", URL: "https://www.coursera.org/search?query=Data%20Visualization%20with%20Tableau"},
		{Title: "Storytelling with Data", Provider: "LinkedIn Learning", Type: "Course", URL: "https://www.linkedin.com/learning/search?keywords=Storytelling%20with%20Data"},
		{Title: "Fundamentals of Data Visualization", Provider: "Medium", Type: "Article", URL: "https://medium.com/search?q=Fundamentals%20of%20Data%20Visualization"},
	},
	"roadmap planning": {
		{Title: "Product Roadmap Planning", Provider: "Product School", Type: "Workshop", URL: "https://productschool.com/search?q=Product%20Roadmap%20Planning"},
		{Title: "The Art of the Product Roadmap", Provider: "Mind the Product", Type: "Article", URL: "https://www.mindtheproduct.com/?s=product+roadmap"},
	},
}

// ResourceCatalog maps improvement topics to places to learn them.
type ResourceCatalog struct {
	searchURL string
}

func NewResourceCatalog(searchURL string) *ResourceCatalog {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &ResourceCatalog{searchURL: searchURL}
}

// SearchURL links to a catalog search for topic.
func (c *ResourceCatalog) SearchURL(topic string) string {
	return c.searchURL + url.QueryEscape(strings.TrimSpace(topic))
}

// Improvements attaches a resource link and search term to each suggestion.
func (c *ResourceCatalog) Improvements(items []Suggestion) []domain.Improvement {
	out := make([]domain.Improvement, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Improvement{
			Suggestion:  it.Suggestion,
			ResourceURL: c.SearchURL(it.Topic),
			SearchTerm:  it.Topic,
		})
	}
	return out
}

// Lookup returns the curated resources for skill, matched case-insensitively,
// together with a catalog search link.
func (c *ResourceCatalog) Lookup(skill string) domain.SkillResources {
	skill = strings.TrimSpace(skill)
	resources := curatedResources[strings.ToLower(skill)]
	if resources == nil {
		resources = []domain.LearningResource{}
	}
	return domain.SkillResources{
		Skill:     skill,
		Resources: resources,
		SearchURL: c.SearchURL(skill),
	}
}
