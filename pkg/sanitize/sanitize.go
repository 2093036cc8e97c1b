// Package sanitize renders untrusted note content as safe HTML.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared policy used for note content. It allows the
// formatting a rich-text editor produces and strips scripts, event
// handlers and javascript: URLs.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("style").OnElements("span", "p", "div")
		p.AllowStyles("color", "background-color", "text-align", "text-decoration").Globally()
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("span", "p", "code", "pre")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// HTML returns content with script-executing constructs removed.
func HTML(content string) string {
	return Policy().Sanitize(content)
}

// Text strips all markup and returns the plain text of content.
func Text(content string) string {
	return bluemonday.StrictPolicy().Sanitize(content)
}
