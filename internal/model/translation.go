package model

import "time"

// Translation is one key→content mapping for a locale.
type Translation struct {
	ID        int64
	Key       string
	Locale    string
	Content   string
	Tag       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TranslationPatch carries the mutable fields of an update. Nil fields are left untouched;
// a Tag pointing at "" clears the tag.
type TranslationPatch struct {
	Content *string
	Tag     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TranslationPatch) IsEmpty() bool {
	return p.Content == nil && p.Tag == nil
}
