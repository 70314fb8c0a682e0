package models

// Section is the fixed category tag grouping posts.
type Section string

const (
	SectionFeelings  Section = "feelings"
	SectionFiqh      Section = "fiqh"
	SectionHealth    Section = "health"
	SectionCommunity Section = "community"
	SectionPoems     Section = "poems"
	SectionStories   Section = "stories"
	SectionImages    Section = "images"
	SectionVideos    Section = "videos"
)

// SectionInfo describes a section as listed on the home screen.
type SectionInfo struct {
	ID         Section `json:"id"`
	Title      string  `json:"title"`
	Subtitle   string  `json:"subtitle"`
	TitleAR    string  `json:"title_ar"`
	SubtitleAR string  `json:"subtitle_ar"`
	// Postable sections hold admin-created posts; health and community are served elsewhere.
	Postable bool `json:"postable"`
}

var sections = []SectionInfo{
	{SectionFeelings, "Feelings", "Share your feelings and thoughts", "المشاعر", "شاركي مشاعرك وأفكارك", true},
	{SectionFiqh, "Women's fiqh", "Rulings and fatwas for women", "فقه النساء", "أحكام وفتاوى نسائية", true},
	{SectionHealth, "Health", "Cycle and pregnancy tracking", "الصحة", "متابعة الدورة والحمل", false},
	{SectionCommunity, "Community", "Inspiring stories and experiences", "المجتمع", "قصص وتجارب ملهمة", false},
	{SectionPoems, "Poems", "Poems and reflections", "الشعر", "قصائد وخواطر", true},
	{SectionStories, "Stories", "Women's tales", "القصص", "حكايات نسائية", true},
	{SectionImages, "Images", "Image gallery", "الصور", "معرض الصور", true},
	{SectionVideos, "Videos", "Visual content", "الفيديوهات", "محتوى مرئي", true},
}

// Sections returns all sections in home screen order.
func Sections() []SectionInfo {
	out := make([]SectionInfo, len(sections))
	copy(out, sections)
	return out
}

// LookupSection returns the section description for id.
func LookupSection(id string) (SectionInfo, bool) {
	for _, s := range sections {
		if string(s.ID) == id {
			return s, true
		}
	}
	return SectionInfo{}, false
}

// LocalizedTitle returns the section title in the given locale.
func (s SectionInfo) LocalizedTitle(locale string) string {
	if locale == LocaleArabic {
		return s.TitleAR
	}
	return s.Title
}
