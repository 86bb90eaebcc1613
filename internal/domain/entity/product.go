package entity

// SourceTag marks every extracted record with the portal it came from.
const SourceTag = "Copernicus/Browser"

// UnknownField is substituted for any record field the result page omits.
const UnknownField = "Unknown"

// ProductRecord is one entry of the rendered result list, in visual order.
// Duplicates from the page pass through unchanged.
type ProductRecord struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	AcquisitionDate string `json:"date"`
	Source          string `json:"source"`
}

// DownloadResult reports a completed product download.
type DownloadResult struct {
	ProductID string `json:"product_id"`
	Path      string `json:"path"`
}
