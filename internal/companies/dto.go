package companies

import "github.com/angelmondragon/propertyhub/pkg/db/models"

// CompanyDTO is the view shape of a company.
type CompanyDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CompanyRequest is the admin add/edit form.
type CompanyRequest struct {
	Name string `form:"name,required"`
}

func FromModel(c *models.Company) *CompanyDTO {
	if c == nil {
		return nil
	}
	return &CompanyDTO{ID: c.ID, Name: c.Name}
}

func FromModels(list []models.Company) []CompanyDTO {
	out := make([]CompanyDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
