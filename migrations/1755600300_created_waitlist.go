package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("waitlist")

		collection.Fields.Add(
			&core.EmailField{Name: "email", Required: true},
			&core.TextField{Name: "name"},
			&core.TextField{Name: "phone"},
			&core.TextField{Name: "referral"},
			&core.AutodateField{Name: "created", OnCreate: true},
		)

		collection.AddIndex("idx_waitlist_email", true, "email", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("waitlist")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
