package dto

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// Page is the limit/offset/search triple accepted by admin listings.
type Page struct {
	Limit  int
	Offset int
	Search string
}
