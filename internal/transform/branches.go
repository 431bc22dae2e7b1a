package transform

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// Branches emits an office per remote branch.
func Branches(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceBranches).Each(func(key string, branch *models.Map) bool {
		var desc description
		desc.add("Symbol", branch.Value("symbol"))

		out.Put(models.TargetOffice, env.IDs.Canonical(models.SourceBranches, key), &models.Office{
			Title:       branch.Text("name"),
			Description: desc.String(),
			ExternalID:  scalarOrNil(branch.Value("id")),
			Address:     scalarOrNil(branch.Value("location")),
			Region:      env.officeRegion(branch.Text("country"), branch.Text("city")),
		})
		return true
	})
	return out
}

// officeRegion slugifies country and city into a region id, or returns nil
// when either is missing.
func (e *Env) officeRegion(country, city string) *string {
	if strings.TrimSpace(country) == "" || strings.TrimSpace(city) == "" {
		return nil
	}
	return strPtr(e.IDs.Build(ids.KindDCRegion, slug(country)+"_"+slug(city)))
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
