package dto

import (
	"rento/internal/domains/item/model"
	"rento/shared"
	gDto "rento/shared/dto"
	gModel "rento/shared/model"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	argQueryTitle       = "q_title"
	argQueryDescription = "q_description"
	argNotDeleted       = "not_deleted"
)

// NormalizeCategory folds a category to its canonical lower-case form.
func NormalizeCategory(category string) string {
	return cases.Lower(language.Und).String(norm.NFKC.String(strings.TrimSpace(category)))
}

// NormalizeQuery folds compatibility characters (full-width letters, ligatures) so a search matches
// what the listing author typed.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(query)), " ")
}

type CreateItemRequest struct {
	Title       string  `json:"title"                  validate:"required,max=120"`
	Description string  `json:"description"            validate:"omitempty,max=2000"`
	Category    string  `json:"category"               validate:"required,max=50"`
	Location    string  `json:"location"               validate:"omitempty,max=120"`
	Price       float64 `json:"price"                  validate:"required,price"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"    validate:"omitempty,url"`
}

func (c *CreateItemRequest) ToModel(ownerID string, now time.Time) model.Item {
	available := true
	if c.IsAvailable != nil {
		available = *c.IsAvailable
	}

	return model.Item{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Category:    NormalizeCategory(c.Category),
		Location:    c.Location,
		Price:       c.Price,
		IsAvailable: available,
		ImageURL:    c.ImageURL,
		Metadata:    gModel.NewMetadata(ownerID, now),
	}
}

// UpdateItemRequest changes a listing. Ownership is not part of it.
type UpdateItemRequest struct {
	Title       string   `db:"title"        json:"title,omitempty"        validate:"omitempty,max=120"`
	Description *string  `db:"description"  json:"description,omitempty"  validate:"omitempty,max=2000"`
	Category    string   `db:"category"     json:"category,omitempty"     validate:"omitempty,max=50"`
	Location    *string  `db:"location"     json:"location,omitempty"     validate:"omitempty,max=120"`
	Price       *float64 `db:"price"        json:"price,omitempty"        validate:"omitempty,price"`
	IsAvailable *bool    `db:"is_available" json:"is_available,omitempty"`
	ImageURL    *string  `db:"image_url"    json:"image_url,omitempty"    validate:"omitempty,url"`
}

func (u *UpdateItemRequest) Normalize() {
	u.Title = strings.TrimSpace(u.Title)

	if u.Category != "" {
		u.Category = NormalizeCategory(u.Category)
	}
}

// ItemFilter narrows the listing browse. Deleted items are never listed.
type ItemFilter struct {
	OwnerID   string
	Category  string
	Available *bool
	Query     string
}

func (f ItemFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{
		gDto.Filter{ArgName: argNotDeleted, Field: model.FieldDeleted, Value: false, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if f.OwnerID != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldOwnerID, Value: f.OwnerID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if category := NormalizeCategory(f.Category); category != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldCategory, Value: category, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Available != nil {
		filters = append(filters, gDto.Filter{Field: model.FieldIsAvailable, Value: *f.Available, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if query := NormalizeQuery(f.Query); query != "" {
		filters = append(filters, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{ArgName: argQueryTitle, Field: model.FieldTitle, Value: query, Operator: gDto.FilterOperatorLike, Table: model.TableName},
				gDto.Filter{ArgName: argQueryDescription, Field: model.FieldDescription, Value: query, Operator: gDto.FilterOperatorLike, Table: model.TableName},
			},
			Operator: gDto.FilterGroupOperatorOr,
		})
	}

	return gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
}

type ItemResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"is_available"`
	ImageURL    *string `json:"image_url,omitempty"`
	gDto.Metadata
}

func (r *ItemResponse) FromModel(model model.Item) {
	r.ID = model.ID
	r.OwnerID = model.OwnerID
	r.Title = model.Title
	r.Description = model.Description
	r.Category = model.Category
	r.Location = model.Location
	r.Price = model.Price
	r.IsAvailable = model.IsAvailable
	r.ImageURL = model.ImageURL
	r.Metadata.FromModel(model.Metadata)
}

type GetItemsResponse struct {
	Items     []ItemResponse `json:"items"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetItemsResponse) FromModels(models []model.Item, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Items = make([]ItemResponse, len(models))
	for i, mod := range models {
		r.Items[i].FromModel(mod)
	}
}

// UploadImageRequest carries a listing photo as a base64 data URI.
type UploadImageRequest struct {
	Image string `json:"image" validate:"required,datauri,mimetypes=image/png image/jpeg image/webp,maxfilesize=5"`
}

type UploadImageResponse struct {
	URL string `json:"url"`
}
