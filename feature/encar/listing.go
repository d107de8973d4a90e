package encar

import (
	"net/url"
	"strings"

	"listing-sync/core/reconcile"
)

// InsuranceStatus is the outcome of the insurance-history check for a listing.
type InsuranceStatus int

const (
	InsurancePending InsuranceStatus = -1
	InsuranceFailed  InsuranceStatus = 0
	InsurancePassed  InsuranceStatus = 1
)

func (s InsuranceStatus) String() string {
	switch s {
	case InsurancePassed:
		return "passed"
	case InsuranceFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Listing is one search result of the marketplace feed.
type Listing struct {
	ID           string          `json:"id"`
	Maker        string          `json:"maker"`
	Model        string          `json:"model"`
	Submodel     string          `json:"submodel"`
	Badge        string          `json:"badge"`
	BadgeDetail  string          `json:"badge_detail"`
	Transmission string          `json:"transmission"`
	FuelType     string          `json:"fuel_type"`
	Year         int             `json:"year"`
	FormYear     int             `json:"form_year"`
	Mileage      int             `json:"mileage"`
	Price        *int            `json:"price,omitempty"` // 만원
	Location     string          `json:"location"`
	ModifiedDate string          `json:"modified_date"`
	Available    bool            `json:"available"`
	Insurance    InsuranceStatus `json:"insurance"`
}

// LiveRecord converts the listing to the engine's live view. The listing itself
// rides along so a create action can build the stored page.
func (l Listing) LiveRecord() reconcile.LiveRecord {
	return reconcile.LiveRecord{Price: l.Price, Item: l}
}

// ModifiedDay returns the date part of ModifiedDate ("2024-06-10 12:34:56.000 +09" → "2024-06-10").
func (l Listing) ModifiedDay() string {
	day, _, _ := strings.Cut(strings.TrimSpace(l.ModifiedDate), " ")
	return day
}

// PageVariables returns the listing as logical variables for the record store.
// Prices are converted to won.
func (l Listing) PageVariables() map[string]any {
	vars := map[string]any{
		"car_id":               l.ID,
		"maker":                l.Maker,
		"model":                l.Model,
		"submodel":             l.Submodel,
		"badge":                l.Badge,
		"badge_detail":         l.BadgeDetail,
		"transmission":         l.Transmission,
		"fuel_type":            l.FuelType,
		"year":                 l.Year,
		"form_year":            l.FormYear,
		"mileage":              l.Mileage,
		"location":             l.Location,
		"url":                  CarURL(l.ID),
		"availability":         l.Available,
		"insurance_inspection": int(l.Insurance),
	}
	if l.Price != nil {
		vars["price"] = *l.Price * reconcile.PriceUnit
	}
	if day := l.ModifiedDay(); day != "" {
		vars["modified_date"] = day
	}
	return vars
}

// CarURL returns the public detail page of a listing.
func CarURL(id string) string {
	q := url.Values{}
	q.Set("pageid", "dc_carsearch")
	q.Set("listAdvType", "pic")
	q.Set("carid", id)
	return "http://www.encar.com/dc/dc_cardetailview.do?" + q.Encode()
}
