package youtube

import "unicode/utf16"

// Entity types that can carry a link.
const (
	EntityURL      = "url"
	EntityTextLink = "text_link"
)

// Entity marks a span of a message. Offset and Length count UTF-16 code units.
type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"` // text_link only
}

// Message is the part of a chat message URLFromMessage looks at.
type Message struct {
	Text            string   `json:"text,omitempty"`
	Caption         string   `json:"caption,omitempty"`
	Entities        []Entity `json:"entities,omitempty"`
	CaptionEntities []Entity `json:"caption_entities,omitempty"`
	ReplyTo         *Message `json:"reply_to_message,omitempty"`
}

// URLFromMessage returns the first link in m or, failing that, in the message
// it replies to. Plain url entities win; text_link caption entities are only
// consulted when the message has no entities at all.
func URLFromMessage(m *Message) string {
	if m == nil {
		return ""
	}
	for _, msg := range []*Message{m, m.ReplyTo} {
		if msg == nil {
			continue
		}
		if len(msg.Entities) > 0 {
			text := msg.Text
			if text == "" {
				text = msg.Caption
			}
			for _, e := range msg.Entities {
				if e.Type != EntityURL {
					continue
				}
				if u := utf16Slice(text, e.Offset, e.Length); u != "" {
					return u
				}
			}
			continue
		}
		for _, e := range msg.CaptionEntities {
			if e.Type == EntityTextLink && e.URL != "" {
				return e.URL
			}
		}
	}
	return ""
}

func utf16Slice(s string, offset, length int) string {
	units := utf16.Encode([]rune(s))
	if offset < 0 || length <= 0 || offset+length > len(units) {
		return ""
	}
	return string(utf16.Decode(units[offset : offset+length]))
}
