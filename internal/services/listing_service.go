package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"swapit/internal/domain"
	"swapit/internal/repos"
	"swapit/internal/validate"
)

// fallbackCategory is used when the submitted category name has no
// exact match.
const fallbackCategory = "Other"

type ListingService struct {
	Cats     *repos.CategoryRepo
	Listings *repos.ListingRepo
}

func NewListingService(cats *repos.CategoryRepo, listings *repos.ListingRepo) *ListingService {
	return &ListingService{Cats: cats, Listings: listings}
}

type NewListing struct {
	Title       string
	Description string
	Category    string
	Price       float64
	Location    string
	ImageURL    string
}

// Create inserts an available listing owned by ownerID and returns its id.
func (s *ListingService) Create(ownerID string, in NewListing) (string, error) {
	title, ok := validate.Title(in.Title)
	if !ok {
		return "", domain.Invalid("Title is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return "", domain.Invalid("Category is required")
	}
	if in.Price < 0 {
		return "", domain.Invalid("Price must not be negative")
	}

	cat, err := s.Cats.ByName(in.Category)
	if errors.Is(err, sql.ErrNoRows) {
		cat, err = s.Cats.ByName(fallbackCategory)
	}
	if err != nil {
		return "", domain.ErrOperationFailed
	}

	// single-element list for now; the column holds an ordered set
	images := []string{}
	if in.ImageURL != "" {
		images = append(images, in.ImageURL)
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return "", domain.ErrOperationFailed
	}

	l := &domain.Listing{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  cat.ID,
		Price:       in.Price,
		Location:    strings.TrimSpace(in.Location),
		ImagesJSON:  string(imagesJSON),
		OwnerID:     ownerID,
	}
	if err := s.Listings.Insert(l); err != nil {
		return "", domain.ErrOperationFailed
	}
	return l.ID, nil
}

// ListAvailable returns the full eligible set; filtering and sorting
// belong to the browse view.
func (s *ListingService) ListAvailable(page, pageSize int) ([]domain.Listing, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize
	return s.Listings.ListAvailable(pageSize, offset)
}

func (s *ListingService) Mine(ownerID string) ([]domain.Listing, error) {
	return s.Listings.ListByOwner(ownerID)
}

func (s *ListingService) Categories() ([]domain.Category, error) {
	return s.Cats.List()
}
