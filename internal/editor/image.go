package editor

import (
	"fmt"
	"html"
	"sync"

	"github.com/classkit/newsletter-studio/internal/newsletter"
	"github.com/classkit/newsletter-studio/internal/section"
)

// ImageEditor edits an image section. Size, alignment and layout are
// three independent toggles stored orthogonally; changing one never
// touches the others. Load failures are tracked per section id in the
// editor only and are never written into section data, so a broken CDN
// moment cannot corrupt the stored imageUrl.
type ImageEditor struct {
	callbacks Callbacks

	mu         sync.Mutex
	loadFailed map[string]bool
}

func NewImageEditor(callbacks Callbacks) *ImageEditor {
	return &ImageEditor{
		callbacks:  callbacks,
		loadFailed: make(map[string]bool),
	}
}

func (e *ImageEditor) Type() section.Type { return section.TypeImage }

// SetURL replaces the image URL and clears any load-error flag for the
// section.
func (e *ImageEditor) SetURL(s section.Section, url string) {
	d := s.Image()
	d.ImageURL = url
	e.clearLoadError(s.ID)
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetCaption replaces the caption.
func (e *ImageEditor) SetCaption(s section.Section, caption string) {
	d := s.Image()
	d.Caption = caption
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetAltText replaces the alt text.
func (e *ImageEditor) SetAltText(s section.Section, alt string) {
	d := s.Image()
	d.AltText = alt
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetSize toggles the size only.
func (e *ImageEditor) SetSize(s section.Section, size string) {
	d := s.Image()
	d.Size = size
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetAlignment toggles the alignment only.
func (e *ImageEditor) SetAlignment(s section.Section, alignment string) {
	d := s.Image()
	d.Alignment = alignment
	e.callbacks.Update(s.ID, s.WithData(d))
}

// SetLayout toggles the layout only.
func (e *ImageEditor) SetLayout(s section.Section, layout string) {
	d := s.Image()
	d.Layout = layout
	e.callbacks.Update(s.ID, s.WithData(d))
}

// MarkLoadError records that the section's image failed to load. The
// flag lives in this editor only; stored data is untouched.
func (e *ImageEditor) MarkLoadError(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loadFailed[id] = true
}

// LoadFailed reports whether the section's image is flagged as broken.
func (e *ImageEditor) LoadFailed(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadFailed[id]
}

func (e *ImageEditor) clearLoadError(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.loadFailed, id)
}

func (e *ImageEditor) Delete(s section.Section) {
	e.callbacks.Delete(s.ID)
}

func (e *ImageEditor) Render(s section.Section, theme newsletter.Theme, mode Mode) string {
	d := s.Image()

	if mode == ModeEdit {
		return fmt.Sprintf(`<div class="section section-image editing" data-section-id="%s">
  <input type="url" name="imageUrl" value="%s" placeholder="Image URL">
  <input type="text" name="caption" value="%s" placeholder="Caption">
  <input type="text" name="altText" value="%s" placeholder="Alt text">
  <select name="size" data-value="%s"></select>
  <select name="alignment" data-value="%s"></select>
  <select name="layout" data-value="%s"></select>
</div>`, html.EscapeString(s.ID), html.EscapeString(d.ImageURL), html.EscapeString(d.Caption),
			html.EscapeString(d.AltText), html.EscapeString(imageOr(d.Size, section.ImageSizeMedium)),
			html.EscapeString(imageOr(d.Alignment, section.ImageAlignCenter)),
			html.EscapeString(imageOr(d.Layout, section.ImageLayoutDefault)))
	}

	if d.ImageURL == "" {
		return fmt.Sprintf(`<div class="section section-image" data-section-id="%s">
  <p class="empty">No image selected</p>
</div>`, html.EscapeString(s.ID))
	}

	if e.LoadFailed(s.ID) {
		return fmt.Sprintf(`<div class="section section-image" data-section-id="%s">
  <p class="image-error">Image failed to load. <button data-action="retry">Retry</button></p>
</div>`, html.EscapeString(s.ID))
	}

	out := fmt.Sprintf(`<div class="section section-image size-%s align-%s layout-%s" data-section-id="%s">
  <img src="%s" alt="%s">`,
		html.EscapeString(imageOr(d.Size, section.ImageSizeMedium)),
		html.EscapeString(imageOr(d.Alignment, section.ImageAlignCenter)),
		html.EscapeString(imageOr(d.Layout, section.ImageLayoutDefault)),
		html.EscapeString(s.ID),
		html.EscapeString(d.ImageURL),
		html.EscapeString(d.AltText))
	if d.Caption != "" {
		out += fmt.Sprintf("\n  <p class=\"caption\">%s</p>", html.EscapeString(d.Caption))
	}
	return out + "\n</div>"
}

func imageOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
