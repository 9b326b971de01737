package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("promotions")

		collection.Fields.Add(
			&core.TextField{Name: "code", Required: true},
			&core.SelectField{
				Name:      "discount_type",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"percentage", "fixed"},
			},
			&core.TextField{Name: "discount_value", Required: true},
			&core.NumberField{Name: "max_uses", OnlyInt: true, Min: types.Pointer(0.0)},
			&core.NumberField{Name: "used_count", OnlyInt: true, Min: types.Pointer(0.0)},
			&core.BoolField{Name: "is_active"},
			&core.DateField{Name: "valid_from"},
			&core.DateField{Name: "valid_until"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_promotions_code", true, "code", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("promotions")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
