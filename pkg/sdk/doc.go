// Package gravityview provides an embeddable Go client for GravityView search
// widgets backed by Redis with the search module.
//
// The client stores forms, views, users and entries, and renders a view's
// search fields with their choices sieved down to values that occur in the
// view's entries.
//
//	client, _ := gravityview.New(ctx, gravityview.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	_ = client.Forms().Save(ctx, form)
//	_, _ = client.Entries(form.ID).Ingest(ctx, entries...)
//	_ = client.Views().Save(ctx, gravityview.View{ID: 10, FormID: form.ID})
//
//	fields := client.SearchFields(10)
//	_, _ = fields.Configure(ctx, []gravityview.Configuration{
//	    {"id": "2", "sieve_choices": true},
//	    {"type": "submit"},
//	})
//	data, _ := fields.Render(ctx, url.Values{"filter_2": {"blue"}})
package gravityview
