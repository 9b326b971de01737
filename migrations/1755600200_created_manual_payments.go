package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("manual_payments")

		collection.Fields.Add(
			&core.TextField{Name: "reference_code", Required: true},
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
			&core.TextField{Name: "momo_number", Required: true},
			&core.SelectField{
				Name:      "payment_status",
				Required:  true,
				MaxSelect: 1,
				Values:    []string{"pending", "confirmed", "rejected"},
			},
			&core.TextField{Name: "confirmed_by"},
			&core.DateField{Name: "confirmed_at"},
			&core.TextField{Name: "admin_notes"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_manual_payments_reference_code", true, "reference_code", "")
		collection.AddIndex("idx_manual_payments_payment_status", false, "payment_status", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("manual_payments")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
