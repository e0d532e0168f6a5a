package storage

import "time"

// JobPosting is one row of the job_postings table.
type JobPosting struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	RequiredSkills []string  `json:"required_skills"`
	SalaryMin      int       `json:"salary_min"`
	SalaryMax      int       `json:"salary_max"`
	UpdatedAt      time.Time `json:"updated_at"`
}
