package domain

import "time"

// Document is a client's identity document. A client may rent only with an
// active, verified document on file.
type Document struct {
	ID        int32     `json:"id"`
	ClientID  int32     `json:"client_id"`
	Number    string    `json:"number"`
	Verified  bool      `json:"verified"`
	Active    bool      `json:"active"`
	ExpiresOn time.Time `json:"expires_on"`
}
