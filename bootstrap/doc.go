// Package bootstrap runs a service through its lifecycle: start components,
// configure the business layer, wait for a signal, then shut down in reverse
// order within a grace period.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(server.NewComponent(srv))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error { ... })
//	err = app.Run(ctx)
package bootstrap
