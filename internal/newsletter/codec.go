package newsletter

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/classkit/newsletter-studio/internal/section"
)

// EncodeContent serializes a content blob exactly as held in memory.
// No defaults are substituted at save time; defaults only ever apply at
// load for an empty section list.
func EncodeContent(c Content) ([]byte, error) {
	if c.Version == "" {
		c.Version = ContentVersion
	}
	return json.Marshal(c)
}

// ParseContent parses a client-supplied content blob for a save. The
// save path is strict where the load path is forgiving: malformed
// content is an error, and the section list is taken verbatim — a
// client that saves an empty list gets an empty list, no default
// substitution.
func ParseContent(raw []byte) (Content, error) {
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return Content{}, fmt.Errorf("failed to parse content: %w", err)
	}
	if c.Version == "" {
		c.Version = ContentVersion
	}
	return c, nil
}

// DecodeContent parses a stored content blob. A malformed or missing
// blob (legacy record shapes included) never fails the load path: the
// record is treated as having empty content and the defaults apply.
// A stored non-empty section list is used verbatim — including section
// types and data shapes this build does not recognize — so documents
// written by newer schema versions round-trip unchanged.
func DecodeContent(raw []byte, factory *section.Factory) Content {
	var c Content
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c); err != nil {
			log.Printf("newsletter: malformed content blob, substituting defaults: %v", err)
			c = Content{}
		}
	}

	if c.Version == "" {
		c.Version = ContentVersion
	}
	if len(c.Sections) == 0 {
		c.Sections = defaultSections(factory)
	}
	if c.Theme == nil {
		c.Theme = DefaultTheme()
	}
	return c
}
