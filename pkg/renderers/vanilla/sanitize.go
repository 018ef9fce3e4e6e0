package vanilla

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicyOnce   sync.Once
	sharedDescriptionPolicy *bluemonday.Policy
)

// descriptionPolicy allows inline formatting and links in help text.
func descriptionPolicy() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AllowStandardURLs()
		sharedDescriptionPolicy = policy
	})
	return sharedDescriptionPolicy
}
