package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ContentType is the wire tag of a post's content variant.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentPoem  ContentType = "poem"
	ContentStory ContentType = "story"
)

var (
	// ErrMissingFile is returned when an image or video post has no file reference.
	ErrMissingFile = errors.New("media content requires a file url")
	// ErrUnknownContentType is returned for tags outside the closed set of variants.
	ErrUnknownContentType = errors.New("unknown content type")
)

// Content is the closed set of post bodies. Only the variants in this package implement it.
type Content interface {
	Type() ContentType
	Body() string
	isContent()
}

// Media is implemented by the variants that carry a mandatory file reference.
type Media interface {
	Content
	File() string
}

type TextContent struct{ Text string }

type PoemContent struct{ Text string }

type StoryContent struct{ Text string }

type ImageContent struct {
	Text    string
	FileURL string
}

type VideoContent struct {
	Text    string
	FileURL string
}

func (TextContent) Type() ContentType  { return ContentText }
func (PoemContent) Type() ContentType  { return ContentPoem }
func (StoryContent) Type() ContentType { return ContentStory }
func (ImageContent) Type() ContentType { return ContentImage }
func (VideoContent) Type() ContentType { return ContentVideo }

func (c TextContent) Body() string  { return c.Text }
func (c PoemContent) Body() string  { return c.Text }
func (c StoryContent) Body() string { return c.Text }
func (c ImageContent) Body() string { return c.Text }
func (c VideoContent) Body() string { return c.Text }

func (c ImageContent) File() string { return c.FileURL }
func (c VideoContent) File() string { return c.FileURL }

func (TextContent) isContent()  {}
func (PoemContent) isContent()  {}
func (StoryContent) isContent() {}
func (ImageContent) isContent() {}
func (VideoContent) isContent() {}

// NewContent builds the variant for t. Image and video require fileURL; the
// other variants carry no file and ignore it.
func NewContent(t ContentType, body, fileURL string) (Content, error) {
	switch t {
	case ContentText:
		return TextContent{Text: body}, nil
	case ContentPoem:
		return PoemContent{Text: body}, nil
	case ContentStory:
		return StoryContent{Text: body}, nil
	case ContentImage:
		if fileURL == "" {
			return nil, ErrMissingFile
		}
		return ImageContent{Text: body, FileURL: fileURL}, nil
	case ContentVideo:
		if fileURL == "" {
			return nil, ErrMissingFile
		}
		return VideoContent{Text: body, FileURL: fileURL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, t)
	}
}

// IsMediaType reports whether t needs a file.
func IsMediaType(t ContentType) bool {
	return t == ContentImage || t == ContentVideo
}

// FileURL returns the file reference of c, or "" for variants without one.
func FileURL(c Content) string {
	if m, ok := c.(Media); ok {
		return m.File()
	}
	return ""
}

// Post is a single content item. Everything except Likes is immutable after creation.
type Post struct {
	ID        string
	Section   Section
	Title     string
	Content   Content
	Likes     int
	CreatedAt time.Time
}

// postJSON mirrors the remote row so clients see the familiar shape.
type postJSON struct {
	ID        string      `json:"id"`
	Section   Section     `json:"section"`
	Title     string      `json:"title"`
	Type      ContentType `json:"type"`
	Content   string      `json:"content"`
	FileURL   *string     `json:"file_url"`
	Likes     int         `json:"likes"`
	CreatedAt time.Time   `json:"created_at"`
}

func (p Post) MarshalJSON() ([]byte, error) {
	out := postJSON{
		ID:        p.ID,
		Section:   p.Section,
		Title:     p.Title,
		Likes:     p.Likes,
		CreatedAt: p.CreatedAt,
	}
	if p.Content != nil {
		out.Type = p.Content.Type()
		out.Content = p.Content.Body()
		if u := FileURL(p.Content); u != "" {
			out.FileURL = &u
		}
	}
	return json.Marshal(out)
}

func (p *Post) UnmarshalJSON(b []byte) error {
	var in postJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	var fileURL string
	if in.FileURL != nil {
		fileURL = *in.FileURL
	}
	content, err := NewContent(in.Type, in.Content, fileURL)
	if err != nil {
		return err
	}
	*p = Post{
		ID:        in.ID,
		Section:   in.Section,
		Title:     in.Title,
		Content:   content,
		Likes:     in.Likes,
		CreatedAt: in.CreatedAt,
	}
	return nil
}

// Comment is a reply attached to a post. Comments are never edited.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
