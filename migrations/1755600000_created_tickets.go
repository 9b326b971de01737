package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("tickets")

		collection.Fields.Add(
			&core.TextField{Name: "code", Required: true},
			&core.EmailField{Name: "email", Required: true},
			&core.TextField{Name: "name", Required: true},
			&core.TextField{Name: "phone"},
			&core.SelectField{
				Name:      "ticket_type",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"early_bird", "regular", "late"},
			},
			&core.NumberField{Name: "quantity", Required: true, OnlyInt: true, Min: types.Pointer(1.0)},
			&core.TextField{Name: "unit_price", Required: true},
			&core.TextField{Name: "total_price", Required: true},
			&core.TextField{Name: "promo_code"},
			&core.TextField{Name: "discount_amount"},
			&core.TextField{Name: "final_price", Required: true},
			&core.TextField{Name: "reference", Required: true},
			&core.SelectField{
				Name:      "payment_status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"pending", "paid"},
			},
			&core.BoolField{Name: "checked_in"},
			&core.DateField{Name: "checked_in_at"},
			&core.TextField{Name: "checked_in_by"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_tickets_code", true, "code", "")
		collection.AddIndex("idx_tickets_reference", true, "reference", "")
		collection.AddIndex("idx_tickets_payment_status", false, "payment_status", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
