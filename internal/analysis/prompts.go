// Package analysis holds the pure parts of the resume/job analysis pipeline:
// prompt construction, tolerant decoding of model replies, the local keyword
// fallback and the learning resource catalog.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxPromptInputRunes bounds how much of each free-text input is embedded in a prompt.
const MaxPromptInputRunes = 12000

// ImprovementCount is the number of suggestions requested from the model.
const ImprovementCount = 4

var ErrEmptyInput = errors.New("analysis: input text is empty")

const skillExtractionTemplate = `Extract the professional skills from the text below.

Rules:
1. Return ONLY a JSON array of strings, for example ["Python", "SQL", "Project Management"].
2. Normalize each skill to its common industry name and use title case.
3. Include job titles and roles the text claims (e.g. "Software Engineer") as skills.
4. Do not repeat a skill.
5. Do not add any explanation or markdown.

TEXT:
---
%s
---`

const skillComparisonTemplate = `You compare a candidate's skills against the skills a job requires.

RESUME SKILLS: %s
JOB SKILLS: %s

Rules:
1. Match skills by meaning, not by exact spelling. Treat synonyms and close variants as the same skill, for example "Software Developer" and "Software Engineer", "JS" and "JavaScript", "Postgres" and "PostgreSQL".
2. Normalize every skill you return to the name used in JOB SKILLS.
3. "matching" lists the JOB SKILLS the resume covers. "missing" lists the JOB SKILLS the resume does not cover. Every job skill appears in exactly one of the two lists.
4. Ignore purely physical-capability requirements (for example lifting weight, standing for long periods, manual dexterity). Leave them out of both lists.
5. Infer the job title from the job skills and put it in "jobTitle". Use an empty string if it cannot be inferred.

Return ONLY a JSON object with exactly this shape and no markdown:
{"matching": ["..."], "missing": ["..."], "jobTitle": "..."}`

const relevanceTemplate = `You are an honest career advisor reviewing how well a resume fits a job.

RESUME:
---
%s
---

JOB DESCRIPTION:
---
%s
---

Skills the resume covers: %s
Skills the resume lacks: %s

Write one short paragraph (at most 5 sentences) assessing the fit. Be critical and specific. Do not be falsely positive: if important skills are missing, say so plainly. Return plain text only.`

const improvementTemplate = `You are a career coach. Suggest how the candidate can close the gap between the resume and the job.

RESUME:
---
%s
---

JOB DESCRIPTION:
---
%s
---

Return ONLY a JSON array with exactly %d objects and no markdown. Each object has:
- "suggestion": one concrete, actionable improvement (one sentence)
- "topic": a short learning topic to search for (2-4 words)

Example: [{"suggestion": "Build a small dashboard project to show data visualization skills.", "topic": "Data Visualization"}]`

// BuildSkillExtractionPrompt asks for the skills in text as a JSON array.
func BuildSkillExtractionPrompt(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	return fmt.Sprintf(skillExtractionTemplate, truncate(text)), nil
}

// BuildSkillComparisonPrompt asks for matching/missing skills and the inferred job title.
func BuildSkillComparisonPrompt(resumeSkills, jobSkills []string) string {
	return fmt.Sprintf(skillComparisonTemplate, jsonList(resumeSkills), jsonList(jobSkills))
}

// BuildRelevancePrompt asks for a short critical assessment of the fit.
func BuildRelevancePrompt(resume, jobDescription string, matching, missing []string) string {
	return fmt.Sprintf(relevanceTemplate, truncate(resume), truncate(jobDescription), jsonList(matching), jsonList(missing))
}

// BuildImprovementPrompt asks for ImprovementCount suggestion/topic pairs.
func BuildImprovementPrompt(resume, jobDescription string) string {
	return fmt.Sprintf(improvementTemplate, truncate(resume), truncate(jobDescription), ImprovementCount)
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxPromptInputRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxPromptInputRunes])
}
