package actor

import "encoding/json"

// callRequest is the body of POST /call/{method}: positional arguments
type callRequest struct {
	Args []interface{} `json:"args"`
}

// callResponse carries either the method's return value or a rejection
type callResponse struct {
	Ok  json.RawMessage `json:"ok,omitempty"`
	Err *string         `json:"err,omitempty"`
}

// productListingDTO mirrors the backend record. Price travels as the tagged
// option form, thumbnailUrl as plain text (blank when unset).
type productListingDTO struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	AmazonURL    string          `json:"amazonUrl"`
	Price        json.RawMessage `json:"price,omitempty"`
}
