package model

// JobPosting is one catalog row: the combined-feature text of the posting and
// the role it recommends toward.
type JobPosting struct {
	CombinedFeatures string `json:"combined_features"`
	TargetRole       string `json:"target_role"`
}

// NewJobPosting builds a posting from raw columns, deriving the combined text
// the same way CandidateProfile does.
func NewJobPosting(skills, role, course, languages, targetRole string) JobPosting {
	return JobPosting{
		CombinedFeatures: CombineFeatures(skills, role, course, languages),
		TargetRole:       targetRole,
	}
}
