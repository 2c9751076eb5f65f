package model

import (
	"time"

	"studysheet-ai-service/internal/domain"

	"github.com/oklog/ulid/v2"
)

// GenType selects how many sheets a single generation request yields.
type GenType string

const (
	GenSingle  GenType = "single"
	GenPack    GenType = "pack"
	GenChapter GenType = "chapter"
)

func ParseGenType(s string) (GenType, error) {
	switch GenType(s) {
	case GenSingle, GenPack, GenChapter:
		return GenType(s), nil
	case "":
		// The original client omits genType for a single sheet.
		return GenSingle, nil
	}
	return "", domain.ErrInvalidArgument
}

// UnitCount is the number of sheets requested from the provider.
func (g GenType) UnitCount() int {
	switch g {
	case GenPack:
		return 5
	case GenChapter:
		return 3
	default:
		return 1
	}
}

// Sheet is one generated study sheet. Sheets are append-only from the
// generation path; only the rating field is updated afterwards.
type Sheet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Subject   string    `json:"subject"`
	Level     string    `json:"level"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSheet mints a sheet with a ULID id so ids sort by creation time.
func NewSheet(ownerID, subject, level, title, content string) *Sheet {
	return &Sheet{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		Subject:   subject,
		Level:     level,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func ValidRating(r int) bool { return r >= 0 && r <= 5 }
