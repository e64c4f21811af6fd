package source

import "time"

// PullRequest is the subset of pull request metadata the detector consumes.
type PullRequest struct {
	Number    int
	Title     string
	Body      string
	URL       string
	Author    string
	State     string
	Merged    bool
	UpdatedAt time.Time
}

// ListPage is one page of the pull request listing. NextPage is zero on the
// last page.
type ListPage struct {
	PullRequests []PullRequest
	NextPage     int
}

// FilesPage is one page of the files changed by a pull request.
type FilesPage struct {
	Files    []string
	NextPage int
}
