package domain

import (
	"fmt"
	"strings"
)

// Source identifies one repository to scan.
type Source struct {
	// Owner is the user or organisation that owns the repository.
	Owner string

	// Repo is the repository name.
	Repo string
}

// String returns the "owner/repo" form used in search qualifiers.
func (s Source) String() string {
	return s.Owner + "/" + s.Repo
}

// Validate checks that both parts of the source are set.
func (s Source) Validate() error {
	if strings.TrimSpace(s.Owner) == "" {
		return fmt.Errorf("%w: source owner is required", ErrInvalidInput)
	}
	if strings.TrimSpace(s.Repo) == "" {
		return fmt.Errorf("%w: source repo is required", ErrInvalidInput)
	}
	return nil
}

// ParseSource parses an "owner/repo" string.
func ParseSource(s string) (Source, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || strings.Contains(repo, "/") {
		return Source{}, fmt.Errorf("%w: source %q must be owner/repo", ErrInvalidInput, s)
	}
	src := Source{Owner: owner, Repo: repo}
	if err := src.Validate(); err != nil {
		return Source{}, err
	}
	return src, nil
}
