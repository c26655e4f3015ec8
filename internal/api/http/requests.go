package http

import (
	"time"

	"github.com/shopspring/decimal"

	"sewasaathi-backend/internal/domain"
	"sewasaathi-backend/internal/utils"
)

type createProductRequest struct {
	ProviderID string          `json:"provider_id"`
	Name       string          `json:"name"`
	BasePrice  decimal.Decimal `json:"base_price"`
	UnitType   string          `json:"unit_type"`
	IsRentable *bool           `json:"is_rentable"`
}

func (req createProductRequest) toDomain() *domain.Product {
	rentable := true
	if req.IsRentable != nil {
		rentable = *req.IsRentable
	}
	return &domain.Product{
		ProviderID: req.ProviderID,
		Name:       req.Name,
		BasePrice:  req.BasePrice,
		UnitType:   req.UnitType,
		IsRentable: rentable,
	}
}

type addSlotRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type createRentalRequest struct {
	CustomerID     string          `json:"customer_id"`
	ProductID      string          `json:"product_id"`
	AvailabilityID string          `json:"availability_id"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	Price          decimal.Decimal `json:"price"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type quotationRequest struct {
	RentalID  string          `json:"rental_id"`
	Price     decimal.Decimal `json:"price"`
	ValidTill *string         `json:"valid_till"`
}

type acceptQuotationResponse struct {
	Quotation *domain.Quotation `json:"quotation"`
	Rental    *domain.Rental    `json:"rental"`
}

type markReadRequest struct {
	IsRead *bool `json:"is_read"`
}

type automationResponse struct {
	Job       string    `json:"job"`
	Processed int       `json:"processed"`
	AsOf      time.Time `json:"as_of"`
}

// parseDates parses a start/end pair, reporting which field was malformed.
func parseDates(start, end string) (time.Time, time.Time, error) {
	s, err := utils.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewError(domain.KindValidation, "invalid start_date %q", start)
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewError(domain.KindValidation, "invalid end_date %q", end)
	}
	return s, e, nil
}
