package models

type PaginationAndSorting struct {
	OffsetId string
	Sorting  SortingField
	Order    SortingOrder
	Limit    int
}

type SortingField string

const (
	SortingFieldCreatedAt SortingField = "created_at"
	SortingFieldUnknown   SortingField = "unknown"
)

func SortingFieldFrom(s string) SortingField {
	switch s {
	case "", "created_at":
		return SortingFieldCreatedAt
	}
	return SortingFieldUnknown
}

type SortingOrder string

const (
	SortingOrderAsc  SortingOrder = "ASC"
	SortingOrderDesc SortingOrder = "DESC"
)

func SortingOrderFrom(s string) SortingOrder {
	if s == "ASC" || s == "asc" {
		return SortingOrderAsc
	}
	return SortingOrderDesc
}

type PaginationDefaults struct {
	Limit  int
	SortBy SortingField
	Order  SortingOrder
}

func WithPaginationDefaults(p PaginationAndSorting, defaults PaginationDefaults) PaginationAndSorting {
	if p.Limit == 0 {
		p.Limit = defaults.Limit
	}
	if p.Sorting == "" || p.Sorting == SortingFieldUnknown {
		p.Sorting = defaults.SortBy
	}
	if p.Order == "" {
		p.Order = defaults.Order
	}
	return p
}

type ListPage[T any] struct {
	Items       []T
	HasNextPage bool
}
