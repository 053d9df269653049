// Package host drives a presentation model tree from the outside: it owns the
// root, moves it through the host's lifecycle callbacks and loads and flushes
// the state backend around them.
//
//	cfg, err := host.LoadConfig("")
//	...
//	d, err := host.NewDelegateFromConfig[*AppPm](cfg, premo.Describe("app"), registry, host.DelegateOptions{})
//	...
//	if err := d.OnCreate(ctx); err != nil { ... }
//	d.OnForeground()
//	// user works
//	d.OnBackground()
//	_ = d.OnSaveState(ctx)
//	_ = d.OnDestroy(ctx, true)
package host
