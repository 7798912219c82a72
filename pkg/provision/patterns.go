package provision

import (
	"fmt"

	"github.com/gobwas/glob"
)

// URLMatcher classifies the post-login URL with glob patterns. Patterns have
// no separator, so '*' also matches across '/'.
type URLMatcher struct {
	successPatterns []glob.Glob
	loginPatterns   []glob.Glob
}

// NewURLMatcher compiles the success and login patterns
func NewURLMatcher(success, login []string) (*URLMatcher, error) {
	m := &URLMatcher{}

	for _, pattern := range success {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid success pattern '%s': %w", pattern, err)
		}
		m.successPatterns = append(m.successPatterns, g)
	}

	for _, pattern := range login {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid login pattern '%s': %w", pattern, err)
		}
		m.loginPatterns = append(m.loginPatterns, g)
	}

	return m, nil
}

// IsLogin returns true if url still shows a login page
func (m *URLMatcher) IsLogin(url string) bool {
	for _, pattern := range m.loginPatterns {
		if pattern.Match(url) {
			return true
		}
	}
	return false
}

// IsAuthenticated returns true if url is only reachable after login.
// Login patterns take precedence.
func (m *URLMatcher) IsAuthenticated(url string) bool {
	if m.IsLogin(url) {
		return false
	}
	for _, pattern := range m.successPatterns {
		if pattern.Match(url) {
			return true
		}
	}
	return false
}
