package models

import "time"

// Review is a user's scored write-up of a title. A user may review a title
// at most once; the composite unique index is the authoritative guarantee.
type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Text     string    `json:"text" gorm:"not null;type:text"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	AuthorID string    `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:uq_reviews_author_title"`
	TitleID  int64     `json:"title_id" gorm:"not null;index;uniqueIndex:uq_reviews_author_title"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"title,omitempty" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
