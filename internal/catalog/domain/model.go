package domain

import (
	"errors"
	"time"
)

const (
	PageSize         = 10
	TopLimit         = 5
	PlaceholderImage = "/placeholder.svg"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("category with this slug already exists")
	ErrShopNotFound     = errors.New("shop not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrAlreadyReviewed  = errors.New("product already reviewed")
	ErrUserNotFound     = errors.New("user not found")
	ErrForbidden        = errors.New("not allowed")
	ErrValidation       = errors.New("validation failed")
)

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Featured    bool      `json:"featured"`
	ParentID    *string   `json:"parentCategory"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryInput is used for create and partial update. An empty
// ParentCategory detaches the category from its parent.
type CategoryInput struct {
	Name           *string `json:"name"`
	Slug           *string `json:"slug"`
	Description    *string `json:"description"`
	Image          *string `json:"image"`
	Featured       *bool   `json:"featured"`
	ParentCategory *string `json:"parentCategory"`
}

// Shop is a storefront owned by one user. Shops start unapproved.
type Shop struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ShopInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
}

type Product struct {
	ID                 string     `json:"id"`
	ShopID             *string    `json:"shopId"`
	CategoryID         *string    `json:"categoryId"`
	SellerID           string     `json:"sellerId"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Image              string     `json:"image"`
	Price              float64    `json:"price"`
	CountInStock       int        `json:"countInStock"`
	IsBestseller       bool       `json:"isBestseller"`
	IsNewRelease       bool       `json:"isNewRelease"`
	IsSpecialOffer     bool       `json:"isSpecialOffer"`
	DiscountPercentage float64    `json:"discountPercentage"`
	Approved           bool       `json:"approved"`
	ApprovedBy         *string    `json:"approvedBy"`
	ApprovedAt         *time.Time `json:"approvedAt"`
	Rating             float64    `json:"rating"`
	NumReviews         int        `json:"numReviews"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ProductInput is used for create and partial update; nil fields are left as is.
type ProductInput struct {
	ShopID             *string  `json:"shopId"`
	CategoryID         *string  `json:"categoryId"`
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Image              *string  `json:"image"`
	Price              *float64 `json:"price"`
	CountInStock       *int     `json:"countInStock"`
	IsBestseller       *bool    `json:"isBestseller"`
	IsNewRelease       *bool    `json:"isNewRelease"`
	IsSpecialOffer     *bool    `json:"isSpecialOffer"`
	DiscountPercentage *float64 `json:"discountPercentage"`
}

type ProductFilter struct {
	Keyword           string
	CategoryID        string
	ShopID            string
	Bestseller        bool
	NewRelease        bool
	SpecialOffer      bool
	IncludeUnapproved bool
	Page              int
}

type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
