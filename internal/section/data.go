package section

// TextStyle holds the inline style block shared by header, title and
// rich text sections.
type TextStyle struct {
	FontSize  string `json:"fontSize,omitempty"`
	TextAlign string `json:"textAlign,omitempty"`
	Color     string `json:"color,omitempty"`
}

// HeaderData is the decoded view of a header section's data.
type HeaderData struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Style    TextStyle `json:"style"`
}

// TitleData is the decoded view of a title section's data.
type TitleData struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Style    TextStyle `json:"style"`
}

// RichTextData is the decoded view of a rich text section's data.
type RichTextData struct {
	Content string    `json:"content"`
	Style   TextStyle `json:"style"`
}

// Event is one entry in an events section. IDs are render keys only;
// the events editor mutates by array position.
type Event struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// EventsData is the decoded view of an events section's data.
type EventsData struct {
	Title  string  `json:"title"`
	Events []Event `json:"events"`
}

// ContactData is the decoded view of a contact section's data.
type ContactData struct {
	Title   string `json:"title"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Room    string `json:"room"`
	Message string `json:"message"`
}

// Image display toggles. The three are stored orthogonally and never
// interact.
const (
	ImageSizeSmall  = "small"
	ImageSizeMedium = "medium"
	ImageSizeLarge  = "large"

	ImageAlignLeft   = "left"
	ImageAlignCenter = "center"
	ImageAlignRight  = "right"

	ImageLayoutDefault = "default"
	ImageLayoutRounded = "rounded"
	ImageLayoutCircle  = "circle"
)

// ImageData is the decoded view of an image section's data. Load
// failures are tracked by the editor only and never land here.
type ImageData struct {
	ImageURL  string `json:"imageUrl"`
	Caption   string `json:"caption,omitempty"`
	AltText   string `json:"altText,omitempty"`
	Size      string `json:"size,omitempty"`
	Alignment string `json:"alignment,omitempty"`
	Layout    string `json:"layout,omitempty"`
}

// Header decodes the section's data as a header. Missing fields come
// back zero-valued; callers render empty-state copy instead of erroring.
func (s Section) Header() HeaderData {
	var d HeaderData
	decodeData(s.Data, &d)
	return d
}

// Title decodes the section's data as a title block.
func (s Section) Title() TitleData {
	var d TitleData
	decodeData(s.Data, &d)
	return d
}

// RichText decodes the section's data as rich text.
func (s Section) RichText() RichTextData {
	var d RichTextData
	decodeData(s.Data, &d)
	return d
}

// EventList decodes the section's data as an events block.
func (s Section) EventList() EventsData {
	var d EventsData
	decodeData(s.Data, &d)
	return d
}

// Contact decodes the section's data as a contact block.
func (s Section) Contact() ContactData {
	var d ContactData
	decodeData(s.Data, &d)
	return d
}

// Image decodes the section's data as an image block.
func (s Section) Image() ImageData {
	var d ImageData
	decodeData(s.Data, &d)
	return d
}

// WithData returns the typed view src merged over the section's current
// data map. Keys the typed view does not model are preserved, so a
// document written by a newer build round-trips losslessly through an
// edit on this one.
func (s Section) WithData(src interface{}) Data {
	return mergeData(s.Data, src)
}
