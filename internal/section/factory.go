package section

import "time"

// Factory creates sections with fresh ids and per-type default data.
type Factory struct {
	ids IDGenerator
	now func() time.Time
}

// NewFactory creates a factory backed by the given id generator. A nil
// generator falls back to the production ULID generator.
func NewFactory(ids IDGenerator) *Factory {
	if ids == nil {
		ids = NewULIDGenerator()
	}
	return &Factory{ids: ids, now: time.Now}
}

// WithClock overrides the factory's clock. Tests use this to pin the
// "today" placeholder date in default events data.
func (f *Factory) WithClock(now func() time.Time) *Factory {
	f.now = now
	return f
}

// New returns a section of the given type with a freshly generated id,
// the given order, and the type's default data. An unrecognized type
// yields a minimal base section with no data; callers treat absent data
// as the empty state and never fail on it.
func (f *Factory) New(t Type, order int) Section {
	s := Section{
		ID:    f.ids.NewID(),
		Type:  t,
		Order: order,
	}
	if data := f.defaultData(t); data != nil {
		s.Data = data
	}
	return s
}

func (f *Factory) defaultData(t Type) Data {
	switch t {
	case TypeHeader:
		return Data{
			"title":    "Classroom Newsletter",
			"subtitle": "News and updates from our classroom",
			"style": map[string]interface{}{
				"fontSize":  "32px",
				"textAlign": "center",
				"color":     "#1a1a2e",
			},
		}
	case TypeTitle:
		return Data{
			"title":    "This Week",
			"subtitle": "",
			"style": map[string]interface{}{
				"fontSize":  "24px",
				"textAlign": "left",
				"color":     "#1a1a2e",
			},
		}
	case TypeRichText:
		return Data{
			"content": "Write your update here...",
			"style": map[string]interface{}{
				"fontSize":  "16px",
				"textAlign": "left",
				"color":     "#333333",
			},
		}
	case TypeEvents:
		return Data{
			"title": "Upcoming Events",
			"events": []interface{}{
				map[string]interface{}{
					"id":          f.ids.NewID(),
					"date":        f.now().Format("2006-01-02"),
					"title":       "New Event",
					"description": "",
				},
			},
		}
	case TypeContact:
		return Data{
			"title":   "Get In Touch",
			"name":    "",
			"email":   "",
			"phone":   "",
			"room":    "",
			"message": "Questions? Reach out any time.",
		}
	case TypeImage:
		return Data{
			"imageUrl":  "",
			"caption":   "",
			"altText":   "",
			"size":      ImageSizeMedium,
			"alignment": ImageAlignCenter,
			"layout":    ImageLayoutDefault,
		}
	}
	return nil
}

// NewEvent mints an event entry with a fresh id, used by the events
// editor when appending.
func (f *Factory) NewEvent() Event {
	return Event{
		ID:    f.ids.NewID(),
		Date:  f.now().Format("2006-01-02"),
		Title: "New Event",
	}
}
