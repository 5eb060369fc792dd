package dto

import "Videoboxd/internal/model"

type CategoryResponse struct {
	ID   uint64 `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func ToCategoryResponse(category *model.Category) CategoryResponse {
	return CategoryResponse{
		ID:   category.ID,
		Slug: category.Slug,
		Name: category.Name,
	}
}

func ToCategoryResponses(categories []model.Category) []CategoryResponse {
	response := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		response = append(response, ToCategoryResponse(&categories[i]))
	}
	return response
}
