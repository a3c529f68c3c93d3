package dto

import (
	"github.com/adaudit/adaudit-backend/models"
	"github.com/adaudit/adaudit-backend/pure_utils"
)

type PaginationAndSortingDto struct {
	OffsetId string `form:"offset_id"`
	Sorting  string `form:"sorting"`
	Order    string `form:"order"`
	Limit    int    `form:"limit"`
}

func AdaptPaginationAndSorting(dto PaginationAndSortingDto) models.PaginationAndSorting {
	return models.PaginationAndSorting{
		OffsetId: dto.OffsetId,
		Sorting:  models.SortingFieldFrom(dto.Sorting),
		Order:    models.SortingOrderFrom(dto.Order),
		Limit:    dto.Limit,
	}
}

type ListPageDto[T any] struct {
	Items       []T  `json:"items"`
	HasNextPage bool `json:"has_next_page"`
}

func AdaptListPageDto[Model, Dto any](page models.ListPage[Model], adapt func(Model) Dto) ListPageDto[Dto] {
	return ListPageDto[Dto]{
		Items:       pure_utils.Map(page.Items, adapt),
		HasNextPage: page.HasNextPage,
	}
}
