package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BriefLabelMaxLen bounds the optional label on a brief version.
const BriefLabelMaxLen = 120

// Default labels for versions written by the application itself.
const (
	LabelAutosave = "Autosave"
	LabelRestore  = "Restore"
)

// Brief is the current planning document of an idea. There is at most one
// per idea; it is created on first access through the store's GetOrCreateBrief.
type Brief struct {
	ID        string       `json:"id" db:"id"`
	IdeaID    string       `json:"idea_id" db:"idea_id"`
	Content   BriefContent `json:"content" db:"-"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// BriefVersion is an immutable snapshot of a brief's content.
type BriefVersion struct {
	ID        string       `json:"id" db:"id"`
	IdeaID    string       `json:"idea_id" db:"idea_id"`
	Number    int          `json:"number" db:"number"`
	Content   BriefContent `json:"content" db:"-"`
	Label     *string      `json:"label" db:"label"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// BriefContent is the structured payload of a brief. It is persisted as
// JSON verbatim. Empty lists are represented as nil.
type BriefContent struct {
	Blocks         Blocks           `json:"blocks"`
	ShotList       []ShotListItem   `json:"shot_list"`
	CTAs           []CTAItem        `json:"ctas"`
	Hashtags       []string         `json:"hashtags"`
	ThumbnailNotes *string          `json:"thumbnail_notes"`
	Attachments    []AttachmentItem `json:"attachments"`
}

// ShotListItem is one planned shot.
type ShotListItem struct {
	ID       string  `json:"id"`
	Cue      string  `json:"cue"`
	Setup    *string `json:"setup,omitempty"`
	ShotType *string `json:"shot_type,omitempty"`
}

// CTAItem is a call to action, optionally aimed at one platform.
type CTAItem struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Platform *string `json:"platform,omitempty"`
}

// AttachmentItem references an uploaded object. Only the storage key and
// retrieval URL are kept, never the bytes.
type AttachmentItem struct {
	ID          string  `json:"id"`
	Filename    string  `json:"filename"`
	URL         string  `json:"url"`
	Key         string  `json:"key"`
	ContentType *string `json:"content_type,omitempty"`
	Size        *int64  `json:"size,omitempty"`
}

// BlockType tags the variants of Block.
type BlockType string

const (
	BlockTypeText      BlockType = "text"
	BlockTypeHeading   BlockType = "heading"
	BlockTypeQuote     BlockType = "quote"
	BlockTypeChecklist BlockType = "checklist"
)

// Block is one of TextBlock, HeadingBlock, QuoteBlock or ChecklistBlock.
type Block interface {
	BlockID() string
	BlockType() BlockType
	BlockText() string
	isBlock()
}

// TextBlock is a paragraph.
type TextBlock struct {
	ID   string
	Text string
}

// HeadingBlock is a section heading.
type HeadingBlock struct {
	ID   string
	Text string
}

// QuoteBlock is a quotation.
type QuoteBlock struct {
	ID   string
	Text string
}

// ChecklistBlock is a to-do line; only this variant carries a checked state.
type ChecklistBlock struct {
	ID      string
	Text    string
	Checked bool
}

func (b TextBlock) BlockID() string           { return b.ID }
func (b TextBlock) BlockType() BlockType      { return BlockTypeText }
func (b TextBlock) BlockText() string         { return b.Text }
func (TextBlock) isBlock()                    {}
func (b HeadingBlock) BlockID() string        { return b.ID }
func (b HeadingBlock) BlockType() BlockType   { return BlockTypeHeading }
func (b HeadingBlock) BlockText() string      { return b.Text }
func (HeadingBlock) isBlock()                 {}
func (b QuoteBlock) BlockID() string          { return b.ID }
func (b QuoteBlock) BlockType() BlockType     { return BlockTypeQuote }
func (b QuoteBlock) BlockText() string        { return b.Text }
func (QuoteBlock) isBlock()                   {}
func (b ChecklistBlock) BlockID() string      { return b.ID }
func (b ChecklistBlock) BlockType() BlockType { return BlockTypeChecklist }
func (b ChecklistBlock) BlockText() string    { return b.Text }
func (ChecklistBlock) isBlock()               {}

// Blocks is an ordered list of blocks with a tagged JSON encoding.
type Blocks []Block

// blockWire is the stored shape of a block.
type blockWire struct {
	ID      string    `json:"id"`
	Type    BlockType `json:"type"`
	Text    string    `json:"text"`
	Checked *bool     `json:"checked,omitempty"`
}

// MarshalJSON encodes each block with its type tag. A nil list encodes as [].
func (bs Blocks) MarshalJSON() ([]byte, error) {
	wire := make([]blockWire, 0, len(bs))
	for _, b := range bs {
		w := blockWire{ID: b.BlockID(), Type: b.BlockType(), Text: b.BlockText()}
		if cb, ok := b.(ChecklistBlock); ok {
			checked := cb.Checked
			w.Checked = &checked
		}
		wire = append(wire, w)
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes tagged blocks. Blocks with an unknown type are
// dropped, like unknown fields elsewhere in the content.
func (bs *Blocks) UnmarshalJSON(data []byte) error {
	var wire []blockWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	var out Blocks
	for _, w := range wire {
		switch w.Type {
		case BlockTypeText:
			out = append(out, TextBlock{ID: w.ID, Text: w.Text})
		case BlockTypeHeading:
			out = append(out, HeadingBlock{ID: w.ID, Text: w.Text})
		case BlockTypeQuote:
			out = append(out, QuoteBlock{ID: w.ID, Text: w.Text})
		case BlockTypeChecklist:
			out = append(out, ChecklistBlock{ID: w.ID, Text: w.Text, Checked: w.Checked != nil && *w.Checked})
		}
	}
	*bs = out
	return nil
}

// contentWire fixes the serialized shape: every list is always present.
type contentWire struct {
	Blocks         Blocks           `json:"blocks"`
	ShotList       []ShotListItem   `json:"shot_list"`
	CTAs           []CTAItem        `json:"ctas"`
	Hashtags       []string         `json:"hashtags"`
	ThumbnailNotes *string          `json:"thumbnail_notes"`
	Attachments    []AttachmentItem `json:"attachments"`
}

// MarshalJSON encodes the content with empty lists as [].
func (c BriefContent) MarshalJSON() ([]byte, error) {
	w := contentWire{
		Blocks:         c.Blocks,
		ShotList:       c.ShotList,
		CTAs:           c.CTAs,
		Hashtags:       c.Hashtags,
		ThumbnailNotes: c.ThumbnailNotes,
		Attachments:    c.Attachments,
	}
	if w.ShotList == nil {
		w.ShotList = []ShotListItem{}
	}
	if w.CTAs == nil {
		w.CTAs = []CTAItem{}
	}
	if w.Hashtags == nil {
		w.Hashtags = []string{}
	}
	if w.Attachments == nil {
		w.Attachments = []AttachmentItem{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes content; unknown fields are ignored and empty
// lists become nil.
func (c *BriefContent) UnmarshalJSON(data []byte) error {
	var w contentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = BriefContent{
		Blocks:         w.Blocks,
		ShotList:       w.ShotList,
		CTAs:           w.CTAs,
		Hashtags:       w.Hashtags,
		ThumbnailNotes: w.ThumbnailNotes,
		Attachments:    w.Attachments,
	}
	c.compact()
	return nil
}

func (c *BriefContent) compact() {
	if len(c.Blocks) == 0 {
		c.Blocks = nil
	}
	if len(c.ShotList) == 0 {
		c.ShotList = nil
	}
	if len(c.CTAs) == 0 {
		c.CTAs = nil
	}
	if len(c.Hashtags) == 0 {
		c.Hashtags = nil
	}
	if len(c.Attachments) == 0 {
		c.Attachments = nil
	}
}

// IsEmpty reports whether the content has nothing in it.
func (c BriefContent) IsEmpty() bool {
	return len(c.Blocks) == 0 && len(c.ShotList) == 0 && len(c.CTAs) == 0 &&
		len(c.Hashtags) == 0 && c.ThumbnailNotes == nil && len(c.Attachments) == 0
}

// Normalized returns a copy with hashtags trimmed, stripped of a leading
// '#', and de-duplicated in first-seen order.
func (c BriefContent) Normalized() BriefContent {
	out := c
	out.Hashtags = nil
	seen := make(map[string]bool, len(c.Hashtags))
	for _, tag := range c.Hashtags {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out.Hashtags = append(out.Hashtags, tag)
	}
	out.compact()
	return out
}

// MarshalBriefContent serializes content for storage.
func MarshalBriefContent(c BriefContent) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling brief content: %w", err)
	}
	return string(data), nil
}

// ParseBriefContent deserializes stored content. Any failure yields the
// empty content instead of an error, so a corrupt brief never breaks the
// idea it belongs to.
//
// Empty lists always come back as nil, so parsing a serialized content
// reproduces it exactly when its empty lists are nil. Callers comparing
// against freshly built content should treat nil and empty alike.
func ParseBriefContent(stored string) BriefContent {
	var c BriefContent
	if strings.TrimSpace(stored) == "" {
		return c
	}
	if err := json.Unmarshal([]byte(stored), &c); err != nil {
		return BriefContent{}
	}
	return c
}
