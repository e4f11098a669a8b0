package analytics

import (
	"sort"

	"github.com/PSilyDev/survease/internal/model"
)

// Catalog lists the categories and surveys present in a response set,
// sorted for stable filter dropdowns.
type Catalog struct {
	Categories   []string            `json:"categories"`
	SurveysByCat map[string][]string `json:"surveysByCat"`
}

// BuildCatalog derives a catalog from stored responses.
func BuildCatalog(docs []model.ResponseDocument) Catalog {
	surveys := map[string]map[string]bool{}
	for _, doc := range docs {
		if surveys[doc.CategoryName] == nil {
			surveys[doc.CategoryName] = map[string]bool{}
		}
		surveys[doc.CategoryName][doc.SurveyName] = true
	}

	cat := Catalog{SurveysByCat: make(map[string][]string, len(surveys))}
	for category, names := range surveys {
		cat.Categories = append(cat.Categories, category)
		list := make([]string, 0, len(names))
		for name := range names {
			list = append(list, name)
		}
		sort.Strings(list)
		cat.SurveysByCat[category] = list
	}
	sort.Strings(cat.Categories)
	return cat
}
