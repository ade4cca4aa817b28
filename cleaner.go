package newsgather

// CleanerConfig selects which tag subtrees are stripped from an article
// before it is rendered. A true flag removes the tag together with
// everything nested inside it.
type CleanerConfig struct {
	RemoveScriptTags bool `json:"removeScriptTags"`
	RemoveATags      bool `json:"removeATags"`
	RemoveImgTags    bool `json:"removeImgTags"`
	RemoveSourceTags bool `json:"removeSourceTags"`
}

// removableTags maps each strippable tag name to the flag that controls it.
var removableTags = map[string]func(*CleanerConfig) bool{
	"script": func(c *CleanerConfig) bool { return c.RemoveScriptTags },
	"a":      func(c *CleanerConfig) bool { return c.RemoveATags },
	"img":    func(c *CleanerConfig) bool { return c.RemoveImgTags },
	"source": func(c *CleanerConfig) bool { return c.RemoveSourceTags },
}

// Removes reports whether subtrees rooted at tag are stripped.
// Tags other than script, a, img and source are never stripped.
// A nil config strips nothing.
func (c *CleanerConfig) Removes(tag string) bool {
	if c == nil {
		return false
	}
	flag, ok := removableTags[tag]
	return ok && flag(c)
}

// SearchCleanerConfig returns the policy used for search results pages:
// scripts and images go, links stay so result URLs survive.
func SearchCleanerConfig() *CleanerConfig {
	return &CleanerConfig{
		RemoveScriptTags: true,
		RemoveImgTags:    true,
	}
}

// StrictCleanerConfig returns a policy that strips all four tag kinds,
// leaving prose only.
func StrictCleanerConfig() *CleanerConfig {
	return &CleanerConfig{
		RemoveScriptTags: true,
		RemoveATags:      true,
		RemoveImgTags:    true,
		RemoveSourceTags: true,
	}
}
