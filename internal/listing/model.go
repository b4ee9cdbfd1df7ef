// File: internal/listing/model.go
package listing

import (
	"math"
	"time"

	"github.com/ldw80203/house-video/internal/common"

	"github.com/google/uuid"
)

// Districts is the fixed vocabulary of supported districts.
var Districts = []string{
	"台北市中正區", "台北市大同區", "台北市中山區", "台北市松山區",
	"台北市大安區", "台北市萬華區", "台北市信義區", "台北市士林區",
	"台北市北投區", "台北市內湖區", "台北市南港區", "台北市文山區",
	"新北市板橋區", "新北市三重區", "新北市中和區", "新北市永和區",
	"新北市新莊區", "新北市新店區", "新北市土城區", "新北市蘆洲區",
	"新北市汐止區", "新北市樹林區", "新北市淡水區", "新北市林口區",
	"桃園市桃園區", "桃園市中壢區", "桃園市八德區", "桃園市龜山區",
}

// RoomTypes is the fixed vocabulary of supported room layouts.
var RoomTypes = []string{
	"套房",
	"1房1廳1衛",
	"2房1廳1衛",
	"2房2廳1衛",
	"2房2廳2衛",
	"3房2廳1衛",
	"3房2廳2衛",
	"4房2廳2衛",
}

// IsValidDistrict reports whether d is in the district vocabulary.
func IsValidDistrict(d string) bool {
	for _, v := range Districts {
		if v == d {
			return true
		}
	}
	return false
}

// IsValidRoomType reports whether rt is in the room-type vocabulary.
func IsValidRoomType(rt string) bool {
	for _, v := range RoomTypes {
		if v == rt {
			return true
		}
	}
	return false
}

// Listing is a single property record with video reference and
// contact/pricing metadata.
type Listing struct {
	common.BaseModel
	AgentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"agent_id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	VideoURL      string    `gorm:"type:text;not null" json:"video_url"`
	CommunityName *string   `gorm:"type:varchar(255)" json:"community_name,omitempty"`
	District      string    `gorm:"type:varchar(100);not null;index" json:"district"`
	Address       string    `gorm:"type:varchar(255);not null" json:"address"`
	Price         float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	Size          float64   `gorm:"type:numeric(10,2);not null" json:"size"`
	PricePerPing  float64   `gorm:"type:numeric(10,1);not null" json:"price_per_ping"`
	RoomType      string    `gorm:"type:varchar(50);not null;index" json:"room_type"`
	Phone         string    `gorm:"type:varchar(50);not null" json:"phone"`
	LineID        *string   `gorm:"type:varchar(100)" json:"line_id,omitempty"`
	IsPublished   bool      `gorm:"not null;default:true;index" json:"is_published"`
}

// TableName specifies the table name for the Listing model.
func (Listing) TableName() string {
	return "properties"
}

// DeriveUnitPrice returns the price per 坪 rounded to one decimal place.
// Defined as exactly 0 when size is not positive; never NaN or infinity.
func DeriveUnitPrice(price, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return math.Round(price/size*10) / 10
}

// Filter is the predicate applied to published-listing reads. Nil fields
// impose no constraint on their dimension; present fields are ANDed.
// It is session state only and is never persisted.
type Filter struct {
	District *string  `json:"district,omitempty" form:"district"`
	MinPrice *float64 `json:"min_price,omitempty" form:"min_price"`
	MaxPrice *float64 `json:"max_price,omitempty" form:"max_price"`
	RoomType *string  `json:"room_type,omitempty" form:"room_type"`
}

// IsZero reports whether the filter imposes no constraints.
func (f Filter) IsZero() bool {
	return f.District == nil && f.MinPrice == nil && f.MaxPrice == nil && f.RoomType == nil
}

// --- DTOs ---

// CreateListingRequest defines the agent submission form.
type CreateListingRequest struct {
	Title         string  `json:"title" binding:"required,max=255"`
	VideoURL      string  `json:"video_url" binding:"required,url"`
	CommunityName *string `json:"community_name,omitempty" binding:"omitempty,max=255"`
	District      string  `json:"district" binding:"required"`
	Address       string  `json:"address" binding:"required,max=255"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Size          float64 `json:"size" binding:"required,gt=0"`
	RoomType      string  `json:"room_type" binding:"required"`
	Phone         string  `json:"phone" binding:"required,max=50"`
	LineID        *string `json:"line_id,omitempty" binding:"omitempty,max=100"`
}

// UpdateListingRequest defines a partial edit. Nil fields are unchanged.
type UpdateListingRequest struct {
	Title         *string  `json:"title,omitempty" binding:"omitempty,max=255"`
	VideoURL      *string  `json:"video_url,omitempty" binding:"omitempty,url"`
	CommunityName *string  `json:"community_name,omitempty" binding:"omitempty,max=255"`
	District      *string  `json:"district,omitempty"`
	Address       *string  `json:"address,omitempty" binding:"omitempty,max=255"`
	Price         *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	Size          *float64 `json:"size,omitempty" binding:"omitempty,gt=0"`
	RoomType      *string  `json:"room_type,omitempty"`
	Phone         *string  `json:"phone,omitempty" binding:"omitempty,max=50"`
	LineID        *string  `json:"line_id,omitempty" binding:"omitempty,max=100"`
	IsPublished   *bool    `json:"is_published,omitempty"`
}

// ListingResponse is the API shape for a listing.
type ListingResponse struct {
	ID            uuid.UUID `json:"id"`
	AgentID       uuid.UUID `json:"agent_id"`
	Title         string    `json:"title"`
	VideoURL      string    `json:"video_url"`
	CommunityName *string   `json:"community_name,omitempty"`
	District      string    `json:"district"`
	Address       string    `json:"address"`
	Price         float64   `json:"price"`
	Size          float64   `json:"size"`
	PricePerPing  float64   `json:"price_per_ping"`
	RoomType      string    `json:"room_type"`
	Phone         string    `json:"phone"`
	LineID        *string   `json:"line_id,omitempty"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToListingResponse converts a Listing model to its API shape.
func ToListingResponse(l *Listing) ListingResponse {
	return ListingResponse{
		ID:            l.ID,
		AgentID:       l.AgentID,
		Title:         l.Title,
		VideoURL:      l.VideoURL,
		CommunityName: l.CommunityName,
		District:      l.District,
		Address:       l.Address,
		Price:         l.Price,
		Size:          l.Size,
		PricePerPing:  l.PricePerPing,
		RoomType:      l.RoomType,
		Phone:         l.Phone,
		LineID:        l.LineID,
		IsPublished:   l.IsPublished,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

// ToListingResponses converts a slice of models.
func ToListingResponses(listings []Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, ToListingResponse(&listings[i]))
	}
	return out
}
