package analysis

// MatchScore is the share of job skills the resume covers, in [0,1].
// An empty job skill set scores 0.
func MatchScore(matching, jobSkills int) float64 {
	if jobSkills <= 0 || matching <= 0 {
		return 0
	}
	score := float64(matching) / float64(jobSkills)
	if score > 1 {
		return 1
	}
	return score
}
