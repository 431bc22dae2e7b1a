package pipeline

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// Merge unions fragment into acc. Re-emitting an id with an equal payload is
// allowed; a different payload, in acc or within fragment itself, yields a
// *ConflictError and leaves acc with the entities merged before the conflict.
func Merge(acc, fragment *models.TargetBundle) error {
	if collisions := fragment.Collisions(); len(collisions) > 0 {
		c := collisions[0]
		return &ConflictError{Kind: c.Kind, ID: c.ID, Existing: c.Existing, Incoming: c.Incoming}
	}
	var err error
	fragment.Each(func(kind string, entities *models.Entities) bool {
		if entities == nil {
			return true
		}
		target := acc.Entities(kind)
		entities.Each(func(id string, incoming any) bool {
			if existing, ok := target.Get(id); ok {
				if !reflect.DeepEqual(existing, incoming) {
					err = &ConflictError{Kind: kind, ID: id, Existing: existing, Incoming: incoming}
					return false
				}
				return true
			}
			target.Set(id, incoming)
			return true
		})
		return err == nil
	})
	return err
}

// Canonicalize returns a bundle holding the non-empty kinds of b, known target
// kinds first in their declared order and any others after them.
func Canonicalize(b *models.TargetBundle) *models.TargetBundle {
	out := models.NewTargetBundle()
	for _, kind := range models.TargetKinds {
		if entities, ok := b.Get(kind); ok && entities.Len() > 0 {
			out.Set(kind, entities)
		}
	}
	b.Each(func(kind string, entities *models.Entities) bool {
		if !out.Has(kind) && entities.Len() > 0 {
			out.Set(kind, entities)
		}
		return true
	})
	return out
}

func render(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
