package editor

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// EventsEditor edits the ordered event list inside an events section.
// All mutations index by array position, matching the rendered order;
// event ids are render keys only and never used for lookup.
type EventsEditor struct {
	factory   *section.Factory
	callbacks Callbacks
}

func NewEventsEditor(factory *section.Factory, callbacks Callbacks) *EventsEditor {
	return &EventsEditor{factory: factory, callbacks: callbacks}
}

func (e *EventsEditor) Type() section.Type { return section.TypeEvents }

// SetTitle replaces the block title.
func (e *EventsEditor) SetTitle(s section.Section, title string) {
	d := s.EventList()
	d.Title = title
	e.callbacks.Update(s.ID, s.WithData(d))
}

// AddEvent appends a fresh-id placeholder event to the end of the list.
func (e *EventsEditor) AddEvent(s section.Section) {
	d := s.EventList()
	d.Events = append(d.Events, e.factory.NewEvent())
	e.callbacks.Update(s.ID, s.WithData(d))
}

// UpdateEvent replaces the event at the given array position. The
// stored id at that position is kept regardless of what the caller
// sends. Out-of-range indexes are ignored.
func (e *EventsEditor) UpdateEvent(s section.Section, index int, ev section.Event) {
	d := s.EventList()
	if index < 0 || index >= len(d.Events) {
		return
	}
	ev.ID = d.Events[index].ID
	d.Events[index] = ev
	e.callbacks.Update(s.ID, s.WithData(d))
}

// RemoveEvent removes exactly the event at the given array position;
// later events shift down by one. Out-of-range indexes are ignored.
func (e *EventsEditor) RemoveEvent(s section.Section, index int) {
	d := s.EventList()
	if index < 0 || index >= len(d.Events) {
		return
	}
	d.Events = append(d.Events[:index], d.Events[index+1:]...)
	e.callbacks.Update(s.ID, s.WithData(d))
}

func (e *EventsEditor) Delete(s section.Section) {
	e.callbacks.Delete(s.ID)
}

func (e *EventsEditor) Render(s section.Section, theme newsletter.Theme, mode Mode) string {
	d := s.EventList()
	title := d.Title
	if title == "" {
		title = "Upcoming Events"
	}

	if mode == ModeEdit {
		var b strings.Builder
		fmt.Fprintf(&b, `<div class="section section-events editing" data-section-id="%s">
  <input type="text" name="title" value="%s">
`, html.EscapeString(s.ID), html.EscapeString(title))
		for i, ev := range d.Events {
			fmt.Fprintf(&b, `  <div class="event-row" data-index="%d">
    <input type="date" name="date" value="%s">
    <input type="text" name="title" value="%s">
    <input type="text" name="description" value="%s">
    <button data-action="remove" data-index="%d">Remove</button>
  </div>
`, i, html.EscapeString(ev.Date), html.EscapeString(ev.Title), html.EscapeString(ev.Description), i)
		}
		b.WriteString(`  <button data-action="add">Add Event</button>
</div>`)
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="section section-events" data-section-id="%s">
  <h2 style="color:%s">%s</h2>
`, html.EscapeString(s.ID), html.EscapeString(theme.String("primaryColor", "#1a1a2e")), html.EscapeString(title))

	if len(d.Events) == 0 {
		b.WriteString(`  <p class="empty">No events scheduled</p>
</div>`)
		return b.String()
	}

	b.WriteString("  <ul class=\"events\">\n")
	for _, ev := range d.Events {
		fmt.Fprintf(&b, `    <li><span class="event-date">%s</span> <strong>%s</strong>`,
			html.EscapeString(formatEventDate(ev.Date)), html.EscapeString(ev.Title))
		if ev.Description != "" {
			fmt.Fprintf(&b, ` — %s`, html.EscapeString(ev.Description))
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("  </ul>\n</div>")
	return b.String()
}

// formatEventDate pretty-prints a stored yyyy-mm-dd date; anything
// else passes through verbatim.
func formatEventDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon, Jan 2")
}
