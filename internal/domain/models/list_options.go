package model

type ListOptions struct {
	// AllowPartial keeps posts whose body could not be fetched and marks them
	// with BodyError instead of failing the whole listing.
	AllowPartial  bool
	PublishedOnly bool
}
